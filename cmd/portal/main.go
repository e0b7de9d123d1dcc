package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apiHttp "github.com/mandapam/portal/internal/api/http"
	"github.com/mandapam/portal/internal/association"
	"github.com/mandapam/portal/internal/cache"
	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/db"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/queue/client"
	"github.com/mandapam/portal/internal/repository"
	"github.com/mandapam/portal/internal/server"
	"github.com/mandapam/portal/internal/service"
	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/pkg/auth"
	logger "github.com/mandapam/portal/pkg/logger"
	"github.com/mandapam/portal/pkg/pdf"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting registration portal", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	applied, err := db.Migrate(ctx, dbMySQL, cfg.Database.MigrationsDir)
	if err != nil {
		appLogger.Error("migrations failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("migrations done", zap.Int("applied", applied))

	// Association lookups work without the cache, just slower.
	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Warn("redis unavailable, association cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
	}

	queueClient := client.New(cfg.Cache)
	defer queueClient.Close()

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		return
	}

	backend := upstream.NewClient(cfg.Upstream)
	statusProbe := probe.New(backend, appLogger)

	var tables checkin.TableRenderer
	if gen, err := pdf.NewGenerator(); err != nil {
		appLogger.Warn("pdf export disabled", zap.Error(err))
	} else {
		tables = gen
	}

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Ctx:          ctx,
		Logger:       appLogger,
		Config:       cfg,
		Backend:      backend,
		Probe:        statusProbe,
		Associations: association.NewClient(backend, redisClient, cfg.Association, appLogger),
		Optimizer:    photo.NewOptimizer(cfg.Photo),
		Passes:       pass.NewCoordinator(backend, queueClient, cfg.PassDelivery, appLogger),
		CheckIn:      checkin.NewController(backend, statusProbe, checkin.NewExporter(tables), appLogger),
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	shutdownCtx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}
	cancel()

	appLogger.Info("app stopped")
}
