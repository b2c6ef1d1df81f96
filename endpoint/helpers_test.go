package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/endpoint"
	"github.com/nadvoretskiy13/attestation03/middleware"
	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/util"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testUser     = "reception"
	testPassword = "s3cret-pass"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestApp builds the full router over a private in-memory database with
// one staff account.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:ep_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hash, err := util.Argon2Hasher{}.Hash(testPassword)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.ReceptionUser{Username: testUser, Password: hash}).Error)

	r, err := endpoint.NewRouter(db, endpoint.RouterOptions{AuthRateLimit: middleware.RateLimitConfig{}})
	require.NoError(t, err)
	return &testApp{router: r, db: db}
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    interface{}
	noAuth  bool
	headers map[string]string
}

// api performs a JSON request authenticated as the seeded user unless noAuth is set.
func (a *testApp) api(t *testing.T, p requestParams) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := p.body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(p.method, p.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if !p.noAuth {
		req.SetBasicAuth(testUser, testPassword)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// form posts a urlencoded form, carrying the given cookies.
func (a *testApp) form(path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login signs in through the web form and returns the session cookie.
func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := a.form("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie, "login did not set a session cookie")
	return cookie
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func johnDoe(email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName": "John",
		"lastName":  "Doe",
		"passport":  "12345",
		"phone":     "+1 555 0100",
		"birthDate": "1980-01-01",
		"email":     email,
	}
}

func decodePatient(t *testing.T, w *httptest.ResponseRecorder) endpoint.PatientResponse {
	t.Helper()
	var p endpoint.PatientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []util.ErrorDetail {
	t.Helper()
	var body util.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Errors
}

func errorFields(details []util.ErrorDetail) []string {
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	return fields
}

// createPatient posts a patient through the API and returns the stored record.
func (a *testApp) createPatient(t *testing.T, email string) endpoint.PatientResponse {
	t.Helper()
	w := a.api(t, requestParams{method: http.MethodPost, path: "/api/v1/patients", body: johnDoe(email)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodePatient(t, w)
}

func jsonUnmarshal(w *httptest.ResponseRecorder, dst interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), dst)
}
