package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/util"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newInMemoryDB creates an in-memory sqlite DB and runs migrations for tests.
func newInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:mw_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()
	hash, err := util.Argon2Hasher{}.Hash(password)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.ReceptionUser{Username: username, Password: hash}).Error)
}

// createTestSession signs a token for username and stores its session row.
func createTestSession(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	token, expires, err := util.NewSessionToken(username, time.Hour)
	require.NoError(t, err)
	require.NoError(t, db.WithContext(context.Background()).Create(&model.Session{
		SessionToken: token,
		Username:     username,
		ExpiresAt:    expires,
	}).Error)
	return token
}

// echoUser is a terminal handler reporting the authenticated username.
func echoUser(c *gin.Context) {
	username, _ := GetUsername(c)
	c.String(http.StatusOK, username)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
