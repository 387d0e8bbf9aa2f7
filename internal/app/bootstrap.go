// Package app orchestrates process startup: config, logging, workspace,
// journal, gateway login and market discovery, in that order.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/exchange"
	"github.com/Obiwank107/grvt-volume-bot/internal/infra"
	"github.com/Obiwank107/grvt-volume-bot/internal/infra/grvt"
	"github.com/Obiwank107/grvt-volume-bot/internal/storage"
)

// Fallback market metadata, used when instrument discovery cannot resolve
// the configured market. Quoting still works, just with coarse alignment.
var (
	fallbackTickSize = decimal.RequireFromString("0.01")
	fallbackMinSize  = decimal.RequireFromString("0.001")
)

// Bootstrap holds everything Initialize wires up. Shutdown releases it in
// reverse order.
type Bootstrap struct {
	Config   *infra.Config
	Gateway  *grvt.Client
	Journal  *storage.Journal
	Strategy domain.StrategyConfig
	Targets  domain.Targets

	unlock func()
}

func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs the startup sequence. Any error is fatal: the caller
// must not start cycling on a partially initialized process.
func (b *Bootstrap) Initialize(ctx context.Context) error {
	// 1. Config first: everything downstream depends on it.
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Logger, then banner, so startup lines land on the configured level.
	slog.SetDefault(infra.NewLogger(cfg))
	infra.PrintBanner(cfg)

	// 3. Workspace layout plus the single-instance lock. Two processes
	// quoting the same sub-account would fight over cancel-all.
	workDir := infra.GetWorkspaceDir()
	env := strings.ToLower(cfg.Environment)
	dataDir := filepath.Join(workDir, "data", env)
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	// 4. Cycle journal (WAL sqlite, write-only audit trail).
	journal, err := storage.NewJournal(filepath.Join(dataDir, "journal.db"))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	b.Journal = journal
	slog.Info("journal ready", slog.String("dir", dataDir))

	// 5. Gateway: authenticate before anything else touches the venue.
	gateway, err := grvt.NewClient(grvt.ClientConfig{
		Environment:  cfg.Environment,
		APIKey:       cfg.API.Key,
		APISecret:    cfg.API.Secret,
		SubAccountID: cfg.API.SubAccountID,
	})
	if err != nil {
		return err
	}
	if err := gateway.Login(ctx); err != nil {
		return err
	}
	b.Gateway = gateway

	// 6. Instrument discovery for tick and minimum size.
	tick, minSize := b.discoverMarket(ctx, cfg.Market)

	strat, err := cfg.Strategy(tick, minSize)
	if err != nil {
		return err
	}
	b.Strategy = strat

	targets, err := cfg.SessionTargets()
	if err != nil {
		return err
	}
	b.Targets = targets

	// 7. Live book feed; the gateway falls back to REST while it warms up.
	gateway.AttachStream(ctx, cfg.Market)

	slog.Info("bootstrap complete",
		slog.String("market", cfg.Market),
		slog.String("environment", cfg.Environment),
		slog.String("tick_size", tick.String()),
		slog.String("target_volume", targets.Volume.String()))
	return nil
}

// discoverMarket looks the configured market up in the instrument list. A
// missing or failed lookup is survivable: fall back to coarse defaults and
// warn, matching how the venue treats unknown precision.
func (b *Bootstrap) discoverMarket(ctx context.Context, market string) (tick, minSize decimal.Decimal) {
	markets, err := b.Gateway.FetchMarkets(ctx)
	if err != nil {
		slog.Warn("instrument discovery failed, using fallback precision",
			slog.Any("error", err))
		return fallbackTickSize, fallbackMinSize
	}
	for _, m := range markets {
		if m.Symbol == market {
			if !m.Active {
				slog.Warn("configured market is not active", slog.String("market", market))
			}
			return m.TickSize, m.MinSize
		}
	}
	slog.Warn("market not found in instrument list, using fallback precision",
		slog.String("market", market))
	return fallbackTickSize, fallbackMinSize
}

// ExchangeGateway returns the exchange boundary for the scheduler.
func (b *Bootstrap) ExchangeGateway() exchange.Gateway { return b.Gateway }

// Shutdown releases resources in reverse initialization order. Safe to call
// after a partial Initialize.
func (b *Bootstrap) Shutdown() {
	if b.Gateway != nil {
		if err := b.Gateway.Close(); err != nil {
			slog.Warn("gateway close failed", slog.Any("error", err))
		}
	}
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Warn("journal close failed", slog.Any("error", err))
		}
	}
	if b.unlock != nil {
		b.unlock()
	}
}
