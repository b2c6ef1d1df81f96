package endpoint_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/nadvoretskiy13/attestation03/util"
)

// TestMain fixes the environment before the config singleton is first read.
func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("JWTSECRET", "test-secret-123")
	os.Setenv("GINMODE", "release")
	os.Setenv("REDIS_ENABLED", "false")

	util.SetJWTSecret("test-secret-123")

	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	os.Exit(m.Run())
}
