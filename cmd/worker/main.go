package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/asynqserver"
	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/internal/worker"
	"github.com/mandapam/portal/pkg/email"
	"github.com/mandapam/portal/pkg/email/smtp"
	logger "github.com/mandapam/portal/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting pass delivery worker", zap.String("env", cfg.Env))

	email.TemplatesDir = cfg.Email.TemplatesDir

	var sender email.Sender = email.Disabled{}
	if cfg.Email.Enabled {
		smtpSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			appLogger.Error("smtp sender creation failed", zap.Error(err))
			os.Exit(1)
		}
		sender = smtpSender
	} else {
		appLogger.Warn("email delivery disabled, pass emails will be dropped")
	}

	workers := worker.NewWorkers(worker.Deps{
		Backend:       upstream.NewClient(cfg.Upstream),
		EmailProvider: sender,
		Config:        cfg,
	})

	srv, mux := asynqserver.New(cfg.Cache, workers, appLogger.Sugar())
	if err := srv.Start(mux); err != nil {
		appLogger.Error("asynq server start failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	srv.Shutdown()
	appLogger.Info("worker stopped")
}
