package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimiter(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func postLogin(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	return serve(r, req)
}

func withRedisMock(t *testing.T) redismock.ClientMock {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })
	return mock
}

func TestRateLimiter_WithoutRedis(t *testing.T) {
	config.SetRedisClientForTest(nil)
	r := limitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, postLogin(r).Code, "request %d", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	mock := withRedisMock(t)
	key := "ratelimit:/login:192.168.1.1"

	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	r := limitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})

	assert.Equal(t, http.StatusOK, postLogin(r).Code)
	w := postLogin(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"errors":[{"field":"error","message":"Too many requests. Please try again later."}]}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_CustomRejection(t *testing.T) {
	mock := withRedisMock(t)
	key := "ratelimit:/login:192.168.1.1"
	mock.ExpectIncr(key).SetVal(6)
	mock.ExpectExpire(key, defaultRateWindow).SetVal(true)

	r := limitedRouter(RateLimitConfig{OnLimit: func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}})

	w := postLogin(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "slow down", w.Body.String())
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	mock := withRedisMock(t)
	key := "ratelimit:/login:192.168.1.1"
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	r := limitedRouter(RateLimitConfig{Limit: 1, Window: time.Minute})
	assert.Equal(t, http.StatusOK, postLogin(r).Code)
}

func TestResetRateLimit(t *testing.T) {
	config.SetRedisClientForTest(nil)
	assert.NoError(t, ResetRateLimit(context.Background(), "192.168.1.1", "/login"))

	mock := withRedisMock(t)
	mock.ExpectDel("ratelimit:/login:192.168.1.1").SetVal(1)
	assert.NoError(t, ResetRateLimit(context.Background(), "192.168.1.1", "/login"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
