// Command checkin reads scanned QR tokens from stdin, one per line, and
// checks them in. Scans taken while the backend is unreachable are kept in a
// local journal and replayed.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/kiosk"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
	logger "github.com/mandapam/portal/pkg/logger"
)

func main() {
	cfg := config.MustLoadKiosk()

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	journal, err := kiosk.OpenJournal(cfg.JournalPath)
	if err != nil {
		appLogger.Error("open scan journal failed", zap.String("path", cfg.JournalPath), zap.Error(err))
		os.Exit(1)
	}
	defer journal.Close()

	backend := upstream.NewClient(cfg.Upstream)
	controller := checkin.NewController(backend, probe.New(backend, appLogger), checkin.NewExporter(nil), appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	ctx = upstream.WithBearer(ctx, cfg.StaffToken)

	appLogger.Info("check-in kiosk ready", zap.String("journal", cfg.JournalPath))

	err = kiosk.New(controller, journal, appLogger).Run(ctx, os.Stdin, os.Stdout, cfg.ReplayPeriod)
	if err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("kiosk stopped", zap.Error(err))
		os.Exit(1)
	}
}
