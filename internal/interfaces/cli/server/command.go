// Package server wires the cobra "server" subcommand: load config, init logger/database,
// mount the 2030.5 and admin HTTP surfaces, and serve with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sep2utility/internal/domain/notification"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/infrastructure/config"
	"sep2utility/internal/infrastructure/database"
	"sep2utility/internal/infrastructure/migration"
	"sep2utility/internal/infrastructure/notify"
	adminhttp "sep2utility/internal/interfaces/http/admin"
	sep2http "sep2utility/internal/interfaces/http/sep2"
	"sep2utility/internal/shared/goroutine"
	"sep2utility/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

// notifyWorkerCount and notifyQueueDepth size the outbound delivery pool; unlike the check
// interval and retry limit these aren't tenant-tunable, so they're fixed here rather than in
// NotificationConfig.
const (
	notifyWorkerCount = 4
	notifyQueueDepth  = 256
)

// NewCommand returns the cobra "server" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the 2030.5 server and admin API",
		Long:  `Start the IEEE 2030.5 / CSIP-AUS resource server alongside its JSON admin API.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting sep2 server", zap.String("environment", env), zap.Bool("auto-migrate", autoMigrate))

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.DomainModels()...); err != nil {
			logger.Fatal("auto-migration failed", zap.Error(err))
		}
	}

	engine := gin.New()
	sep2http.RegisterRoutes(engine, database.Get(), &cfg.Sep2, site.NewPINGenerator())
	adminhttp.RegisterRoutes(engine, database.Get(), cfg.Auth.JWT, cfg.Server.AllowedOrigins)

	notifyCtx, cancelNotify := context.WithCancel(context.Background())
	defer cancelNotify()

	structuredLog := logger.NewLogger()
	dispatcher := notify.NewDispatcher(notifyCtx, notifyWorkerCount, notifyQueueDepth, cfg.Notification.MaxDeliveryAttempts, structuredLog)
	stopPoll := startNotificationPoll(notifyCtx, dispatcher, database.Get(), cfg.Notification.CheckIntervalSeconds, structuredLog)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("address", cfg.Server.GetAddr()), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	stopPoll()
	cancelNotify()
	dispatcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// startNotificationPoll runs notification.CheckDBChangeOrDelete on a fixed interval, feeding
// whatever DeliveryTasks it finds into dispatcher. It returns a stop func that halts the ticker;
// the in-flight tick (if any) is left to finish, same as dispatcher.Stop's drain-then-exit.
func startNotificationPoll(ctx context.Context, dispatcher *notify.Dispatcher, db *gorm.DB, intervalSeconds int, log logger.Interface) func() {
	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}
	done := make(chan struct{})
	goroutine.SafeGo(log, "notify-poll", func() {
		ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
		defer ticker.Stop()

		last := time.Now().UTC()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case tick := <-ticker.C:
				tasks, err := notification.CheckDBChangeOrDelete(ctx, db, last, notify.BasicXMLSerializer, tick)
				if err != nil {
					log.Errorw("notification poll failed", "error", err)
					continue
				}
				last = tick
				if len(tasks) > 0 {
					dispatcher.Enqueue(tasks)
				}
			}
		}
	})
	return func() { close(done) }
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
