package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBDriver string `json:"dbdriver"`
	DBHost   string `json:"dbhost"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUSER   string `json:"dbuser"`
	DBPass   string `json:"dbpass"`
	DBPath   string `json:"dbpath"`

	JWTSecret  string        `json:"-"`
	SessionTTL time.Duration `json:"sessionttl"`

	LogLevel  string `json:"loglevel"`
	LogFormat string `json:"logformat"`

	RedisEnabled bool   `json:"redis_enabled"`
	RedisAddr    string `json:"redis_addr"`
	RedisPass    string `json:"-"`
	RedisDB      int    `json:"redis_db"`

	GeoIPDBPath string `json:"geoip_db_path"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSessionTTL = 8 * time.Hour
)

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error; the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("could not load .env file", zap.Error(err))
		}
		config = fromEnv()
	})
	return config
}

// ResetConfigForTest drops the cached config so the next LoadConfig rereads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

func fromEnv() *Config {
	appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
	if appPort == 0 {
		appPort = 8080
	}
	dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	ttl := defaultSessionTTL
	if raw := os.Getenv("SESSIONTTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	return &Config{
		AppName:      envOr("APPNAME", "reception"),
		AppEnv:       os.Getenv("APPENV"),
		AppPort:      uint16(appPort),
		GinMode:      envOr("GINMODE", "release"),
		DBDriver:     strings.ToLower(envOr("DBDRIVER", DriverMySQL)),
		DBHost:       envOr("DBHOST", "localhost"),
		DBPort:       uint16(dbPort),
		DBName:       os.Getenv("DBNAME"),
		DBUSER:       os.Getenv("DBUSER"),
		DBPass:       os.Getenv("DBPASS"),
		DBPath:       envOr("DBPATH", "reception.db"),
		JWTSecret:    os.Getenv("JWTSECRET"),
		SessionTTL:   ttl,
		LogLevel:     envOr("LOGLEVEL", "info"),
		LogFormat:    envOr("LOGFORMAT", "json"),
		RedisEnabled: os.Getenv("REDIS_ENABLED") == "true",
		RedisAddr:    envOr("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      redisDB,
		GeoIPDBPath:  os.Getenv("GEOIP_DB_PATH"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Dialector returns the gorm dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case DriverMySQL:
		port := c.DBPort
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			c.DBUSER, c.DBPass, c.DBHost, port, c.DBName)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		port := c.DBPort
		if port == 0 {
			port = 5432
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, port, c.DBUSER, c.DBPass, c.DBName)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
}

// ConnectDatabase opens the configured database. With APPENV=test it opens a
// shared in-memory sqlite database instead.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormCfg)
	}
	if cfg.GinMode == "debug" {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}
