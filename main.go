package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/nadvoretskiy13/attestation03/endpoint"
	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
	"github.com/nadvoretskiy13/attestation03/service"
	"github.com/nadvoretskiy13/attestation03/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title           Reception API
// @version         1.0
// @description     Patient records of the clinic reception.
// @BasePath        /
// @securityDefinitions.basic BasicAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "reception",
		Short:        "Clinic reception server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(userCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer zap.L().Sync() //nolint:errcheck
			zap.L().Info("migrations applied", zap.String("driver", db.Dialector.Name()))
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			svc := service.NewUserService(repository.NewUserRepository(db), util.Argon2Hasher{})
			user, err := svc.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	addCmd.Flags().String("username", "", "account username")
	addCmd.Flags().String("password", "", "account password")

	revokeCmd := &cobra.Command{
		Use:   "revoke-sessions",
		Short: "Log a staff account out of every browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			if username == "" {
				return errors.New("--username is required")
			}

			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			users := service.NewUserService(repository.NewUserRepository(db), util.Argon2Hasher{})
			if _, err := users.LoadCredentials(cmd.Context(), username); err != nil {
				return err
			}

			if cfg.RedisEnabled {
				if _, err := config.ConnectRedis(); err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
			}
			if err := util.InvalidateUserSessions(cmd.Context(), username); err != nil {
				return fmt.Errorf("invalidate redis sessions: %w", err)
			}
			n, err := repository.NewSessionRepository(db).DeleteByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("delete sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %d session(s) of %q\n", n, username)
			return nil
		},
	}
	revokeCmd.Flags().String("username", "", "account username")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(revokeCmd)
	return cmd
}

// bootstrap loads the configuration, installs the global logger and opens a
// migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.LoadConfig()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.AppName)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	if cfg.JWTSecret != "" {
		util.SetJWTSecret(cfg.JWTSecret)
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := model.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, db, nil
}

func runServer() error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	logger := zap.L()
	defer logger.Sync() //nolint:errcheck

	if cfg.JWTSecret == "" {
		return errors.New("JWTSECRET must be set")
	}

	util.SetSecurityLoggerDB(db)

	if _, err := config.ConnectRedis(); err != nil {
		logger.Warn("redis unavailable, sessions and rate limits use the database only", zap.Error(err))
	}

	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn("geoip disabled", zap.Error(err))
	}
	defer util.CloseGeoIP()

	gin.SetMode(cfg.GinMode)
	router, err := endpoint.NewRouter(db, endpoint.RouterOptions{Realm: cfg.AppName})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
