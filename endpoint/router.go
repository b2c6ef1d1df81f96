package endpoint

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/middleware"
	"github.com/nadvoretskiy13/attestation03/templates"
	"github.com/nadvoretskiy13/attestation03/util"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/nadvoretskiy13/attestation03/docs"
)

// RouterOptions tunes NewRouter.
type RouterOptions struct {
	// Realm is sent in the Basic auth challenge of the REST API.
	Realm string
	// AuthRateLimit applies to POST /login and POST /register.
	AuthRateLimit middleware.RateLimitConfig
}

// NewRouter wires the REST API, the web UI and the docs onto a new engine.
func NewRouter(db *gorm.DB, opts RouterOptions) (*gin.Engine, error) {
	if err := util.RegisterValidators(); err != nil {
		return nil, err
	}
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}
	if opts.Realm == "" {
		opts.Realm = "reception"
	}
	if opts.AuthRateLimit.OnLimit == nil {
		opts.AuthRateLimit.OnLimit = func(c *gin.Context) {
			c.HTML(http.StatusTooManyRequests, "404.html", page(c, "Too many requests", gin.H{
				"Message": "Too many attempts. Please try again later.",
			}))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.DatabaseMiddleware(db))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(patientsAPIPath, middleware.CORSMiddleware())
	api.OPTIONS("", func(c *gin.Context) {})
	api.OPTIONS("/:id", func(c *gin.Context) {})
	authed := api.Group("", middleware.BasicAuth(opts.Realm))
	authed.GET("", ListPatients)
	authed.POST("", CreatePatient)
	authed.GET("/:id", GetPatient)
	authed.PUT("/:id", UpdatePatient)
	authed.PATCH("/:id", PatchPatient)
	authed.DELETE("/:id", DeletePatient)

	limiter := middleware.RateLimiter(opts.AuthRateLimit)
	r.GET("/register", RegisterPage)
	r.POST("/register", limiter, RegisterSubmit)
	r.GET("/login", LoginPage)
	r.POST("/login", limiter, LoginSubmit)
	r.POST("/logout", Logout)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/patients") })
	web := r.Group("/patients", middleware.RequireSession())
	web.GET("", PatientsPage)
	web.GET("/add", AddPatientPage)
	web.POST("/add", AddPatientSubmit)
	web.GET("/:id/edit", EditPatientPage)
	web.POST("/:id/edit", EditPatientSubmit)
	web.POST("/:id/delete", DeletePatientSubmit)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			util.CallErrorNotFound(c, util.GenericErrorField, "resource not found")
			return
		}
		renderNotFound(c, "Page not found")
	})

	return r, nil
}
