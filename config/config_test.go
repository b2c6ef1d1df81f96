package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

// freshConfig sets env and returns a config loaded from it.
func freshConfig(t *testing.T, env map[string]string) *Config {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	ResetConfigForTest()
	t.Cleanup(ResetConfigForTest)
	return LoadConfig()
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := freshConfig(t, map[string]string{
		"APPPORT":    "",
		"DBDRIVER":   "",
		"SESSIONTTL": "",
		"LOGLEVEL":   "",
	})

	require.NotNil(t, cfg)
	assert.Equal(t, uint16(8080), cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	cfg := freshConfig(t, map[string]string{
		"APPNAME":       "clinic",
		"APPPORT":       "9000",
		"DBDRIVER":      "Postgres",
		"SESSIONTTL":    "30m",
		"REDIS_ENABLED": "true",
		"REDIS_DB":      "3",
	})

	assert.Equal(t, "clinic", cfg.AppName)
	assert.Equal(t, uint16(9000), cfg.AppPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfigIsSingleton(t *testing.T) {
	first := freshConfig(t, map[string]string{"APPNAME": "one"})
	t.Setenv("APPNAME", "two")
	assert.Same(t, first, LoadConfig())
	assert.Equal(t, "one", LoadConfig().AppName)
}

func TestDialector(t *testing.T) {
	cases := []struct {
		driver string
		check  func(t *testing.T, d interface{})
	}{
		{DriverMySQL, func(t *testing.T, d interface{}) { assert.IsType(t, &mysql.Dialector{}, d) }},
		{DriverPostgres, func(t *testing.T, d interface{}) { assert.IsType(t, &postgres.Dialector{}, d) }},
		{DriverSQLite, func(t *testing.T, d interface{}) { assert.IsType(t, &sqlite.Dialector{}, d) }},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			cfg := &Config{DBDriver: tc.driver, DBHost: "localhost", DBName: "reception", DBPath: "x.db"}
			d, err := cfg.Dialector()
			require.NoError(t, err)
			tc.check(t, d)
		})
	}

	_, err := (&Config{DBDriver: "oracle"}).Dialector()
	assert.Error(t, err)
}

func TestConnectDatabaseTestEnv(t *testing.T) {
	freshConfig(t, map[string]string{"APPENV": "test"})

	db, err := ConnectDatabase()
	require.NoError(t, err)
	require.NotNil(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger("debug", format, "reception")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(-1))
	}

	l, err := NewLogger("bogus", "json", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
}
