package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Obiwank107/grvt-volume-bot/internal/app"
	"github.com/Obiwank107/grvt-volume-bot/internal/engine"
	"github.com/Obiwank107/grvt-volume-bot/internal/report"
	"github.com/Obiwank107/grvt-volume-bot/internal/session"
)

func main() {
	// Ctrl+C / SIGTERM cancels the context; the scheduler turns that into
	// its shutdown sequence (final cancel-all, final report).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(ctx); err != nil {
		slog.Error("bootstrap failed", slog.Any("error", err))
		bootstrap.Shutdown()
		os.Exit(1)
	}
	defer bootstrap.Shutdown()

	tracker := session.NewTracker(time.Now(), bootstrap.Strategy.SpreadBps, bootstrap.Targets)
	reporter := report.NewReporter(os.Stdout, bootstrap.Config.StatusInterval())

	scheduler := engine.NewScheduler(bootstrap.Strategy, bootstrap.ExchangeGateway(),
		tracker, reporter, bootstrap.Journal)

	reason := scheduler.Run(ctx)
	slog.Info("session ended", slog.String("reason", reason.String()))
}
