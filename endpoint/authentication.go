package endpoint

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/nadvoretskiy13/attestation03/middleware"
	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
	"github.com/nadvoretskiy13/attestation03/service"
	"github.com/nadvoretskiy13/attestation03/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterForm struct {
	Username        string `form:"username" binding:"notblank,max=191"`
	Password        string `form:"password" binding:"notblank,max=1024"`
	PasswordConfirm string `form:"passwordConfirm" binding:"notblank,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" binding:"notblank"`
	Password string `form:"password" binding:"notblank"`
}

// clientInfo is the caller as seen by the security log.
type clientInfo struct {
	IP    string
	Agent string
}

func clientOf(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func userServiceFor(db *gorm.DB) *service.UserService {
	return service.NewUserService(repository.NewUserRepository(db), util.Argon2Hasher{})
}

func renderRegister(c *gin.Context, status int, form RegisterForm, errs map[string]string) {
	c.HTML(status, "register.html", page(c, "Register", gin.H{
		"Form":   gin.H{"Username": form.Username},
		"Errors": errs,
	}))
}

func renderLogin(c *gin.Context, status int, form LoginForm, errs map[string]string) {
	c.HTML(status, "login.html", page(c, "Log in", gin.H{
		"Form":       gin.H{"Username": form.Username},
		"Errors":     errs,
		"Registered": c.Query("registered") != "",
		"LoggedOut":  c.Query("logged_out") != "",
	}))
}

func RegisterPage(c *gin.Context) {
	renderRegister(c, http.StatusOK, RegisterForm{}, nil)
}

// RegisterSubmit creates a staff account and sends the browser to the login page.
func RegisterSubmit(c *gin.Context) {
	var form RegisterForm
	ci := clientOf(c)
	if err := c.ShouldBind(&form); err != nil {
		renderRegister(c, http.StatusOK, form, util.FieldErrorMap(util.FieldErrors(err)))
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		renderServerError(c, errors.New("db is nil"))
		return
	}

	username := strings.TrimSpace(form.Username)
	if _, err := userServiceFor(db).Register(c.Request.Context(), username, form.Password); err != nil {
		util.LogSignup(username, ci.IP, ci.Agent, err)
		if errs, handled := formErrors(err); handled {
			renderRegister(c, http.StatusOK, form, errs)
			return
		}
		renderServerError(c, err)
		return
	}

	util.LogSignup(username, ci.IP, ci.Agent, nil)
	c.Redirect(http.StatusFound, "/login?registered=1")
}

func LoginPage(c *gin.Context) {
	renderLogin(c, http.StatusOK, LoginForm{}, nil)
}

// LoginSubmit checks the credentials, opens a session and sets the session cookie.
func LoginSubmit(c *gin.Context) {
	var form LoginForm
	ci := clientOf(c)
	if err := c.ShouldBind(&form); err != nil {
		renderLogin(c, http.StatusOK, form, util.FieldErrorMap(util.FieldErrors(err)))
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		renderServerError(c, errors.New("db is nil"))
		return
	}

	creds, err := userServiceFor(db).Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		util.LogLoginFailure(form.Username, ci.IP, ci.Agent, "bad credentials")
		renderLogin(c, http.StatusUnauthorized, form, map[string]string{util.GenericErrorField: "Invalid username or password"})
		return
	}
	if err != nil {
		util.LogLoginFailure(form.Username, ci.IP, ci.Agent, "authentication error")
		renderServerError(c, err)
		return
	}

	if err := middleware.ResetRateLimit(c.Request.Context(), ci.IP, c.Request.URL.Path); err != nil {
		zap.L().Warn("failed to reset login rate limit", zap.String("ip", ci.IP), zap.Error(err))
	}

	session, err := openSession(c.Request.Context(), db, creds.Username, ci)
	if err != nil {
		util.LogLoginFailure(creds.Username, ci.IP, ci.Agent, "session creation failed")
		renderServerError(c, err)
		return
	}

	setSessionCookie(c, session.SessionToken, time.Until(session.ExpiresAt))
	util.LogLoginSuccess(creds.Username, ci.IP, ci.Agent)
	c.Redirect(http.StatusFound, "/patients")
}

// openSession signs a token, records the session row and mirrors it to Redis.
func openSession(ctx context.Context, db *gorm.DB, username string, ci clientInfo) (model.Session, error) {
	ttl := config.LoadConfig().SessionTTL
	token, expires, err := util.NewSessionToken(username, ttl)
	if err != nil {
		return model.Session{}, err
	}

	session := model.Session{
		SessionToken: token,
		Username:     username,
		ExpiresAt:    expires,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := repository.NewSessionRepository(db).Create(ctx, &session); err != nil {
		return model.Session{}, err
	}

	if err := util.StoreSession(ctx, token, username, time.Until(expires)); err != nil {
		zap.L().Warn("failed to mirror session to redis", zap.String("username", username), zap.Error(err))
	}
	return session, nil
}

func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := c.Request.TLS != nil
	c.SetCookie(middleware.SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// Logout closes the current session, if any, and clears the cookie.
func Logout(c *gin.Context) {
	ci := clientOf(c)
	token, _ := c.Cookie(middleware.SessionCookieName)
	if token != "" {
		username, _ := util.ParseSessionToken(token)
		ctx := c.Request.Context()

		if db := middleware.GetDB(c); db != nil {
			if err := repository.NewSessionRepository(db).DeleteByToken(ctx, token); err != nil {
				zap.L().Warn("failed to delete session", zap.Error(err))
			}
		}
		if err := util.DeleteSession(ctx, token, username); err != nil {
			zap.L().Warn("failed to delete redis session", zap.Error(err))
		}
		if username != "" {
			util.LogLogout(username, ci.IP, ci.Agent)
		}
	}

	setSessionCookie(c, "", -time.Second)
	c.Redirect(http.StatusFound, "/login?logged_out=1")
}
