// Package storage persists an append-only session journal for post-run
// inspection. The journal is write-only from the bot's point of view:
// nothing in it ever feeds back into behavior.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/glebarez/go-sqlite"
)

// CycleRecord summarizes one refresh cycle.
type CycleRecord struct {
	StartedAt   time.Time
	MidPrice    decimal.Decimal
	PlacedBuys  int
	PlacedSells int
	Skipped     bool
}

// ReconcileRecord captures one reconciliation against the trade ledger.
type ReconcileRecord struct {
	At          time.Time
	TotalVolume decimal.Decimal
	TotalTrades int
	TotalLoss   decimal.Decimal
}

// Journal is a WAL-mode SQLite log of cycles and reconciliations.
type Journal struct {
	db *sql.DB
}

// NewJournal opens (or creates) the journal database.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS cycles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			mid_price TEXT NOT NULL,
			placed_buys INTEGER NOT NULL,
			placed_sells INTEGER NOT NULL,
			skipped INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS reconciliations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at INTEGER NOT NULL,
			total_volume TEXT NOT NULL,
			total_trades INTEGER NOT NULL,
			total_loss TEXT NOT NULL
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Journal{db: db}, nil
}

// RecordCycle appends one cycle row.
func (j *Journal) RecordCycle(ctx context.Context, rec CycleRecord) error {
	skipped := 0
	if rec.Skipped {
		skipped = 1
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO cycles (started_at, mid_price, placed_buys, placed_sells, skipped) VALUES (?, ?, ?, ?, ?)",
		rec.StartedAt.UnixMilli(), rec.MidPrice.String(), rec.PlacedBuys, rec.PlacedSells, skipped,
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

// RecordReconciliation appends one reconciliation row.
func (j *Journal) RecordReconciliation(ctx context.Context, rec ReconcileRecord) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO reconciliations (at, total_volume, total_trades, total_loss) VALUES (?, ?, ?, ?)",
		rec.At.UnixMilli(), rec.TotalVolume.String(), rec.TotalTrades, rec.TotalLoss.String(),
	)
	if err != nil {
		return fmt.Errorf("insert reconciliation: %w", err)
	}
	return nil
}

// CycleCount returns the number of journaled cycles.
func (j *Journal) CycleCount(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cycles").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
