package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/repository"
	"github.com/nadvoretskiy13/attestation03/service"
	"github.com/nadvoretskiy13/attestation03/util"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie holding the signed web session token.
const SessionCookieName = "reception_session"

// LoginPath is where RequireSession sends unauthenticated browsers.
const LoginPath = "/login"

// BasicAuth authenticates REST calls with HTTP Basic credentials against the
// staff accounts. No session is created.
func BasicAuth(realm string) gin.HandlerFunc {
	challenge := `Basic realm="` + realm + `"`
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			util.LogUnauthorizedAccess("", c.ClientIP(), c.Request.URL.Path, "missing credentials")
			util.CallUserNotAuthorized(c, "authentication required")
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServiceUnavailable(c, "Database connection not available", errors.New("db is nil"))
			c.Abort()
			return
		}

		users := service.NewUserService(repository.NewUserRepository(db), util.Argon2Hasher{})
		if _, err := users.Authenticate(c.Request.Context(), username, password); err != nil {
			if !errors.Is(err, service.ErrBadCredentials) {
				zap.L().Error("basic auth failed", zap.String("username", username), zap.Error(err))
			}
			c.Header("WWW-Authenticate", challenge)
			util.LogUnauthorizedAccess(username, c.ClientIP(), c.Request.URL.Path, "bad credentials")
			util.CallUserNotAuthorized(c, "bad credentials")
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// RequireSession admits browsers holding a valid session cookie. The token
// signature and expiry are checked first, then the Redis mirror when it is
// configured, then the sessions table. Anything else is redirected to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := sessionUser(c)
		if err != nil {
			zap.L().Debug("session rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(usernameKey, username)
		c.Next()
	}
}

var errNoSession = errors.New("no session")

func sessionUser(c *gin.Context) (string, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return "", errNoSession
	}
	username, err := util.ParseSessionToken(token)
	if err != nil {
		return "", err
	}

	ctx := c.Request.Context()
	cached, found, err := util.LookupSession(ctx, token)
	if err != nil {
		zap.L().Warn("redis session lookup failed", zap.Error(err))
	}
	if found {
		if cached != username {
			return "", errors.New("session owner mismatch")
		}
		return username, nil
	}

	db := GetDB(c)
	if db == nil {
		return "", errors.New("db is nil")
	}
	session, err := repository.NewSessionRepository(db).FindValid(ctx, token, time.Now())
	if err != nil {
		return "", err
	}
	if session.Username != username {
		return "", errors.New("session owner mismatch")
	}
	return username, nil
}
