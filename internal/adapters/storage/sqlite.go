// Package storage persiste los runs de backtest en SQLite para poder
// compararlos a posteriori.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/backtest"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                TEXT PRIMARY KEY,
    strategy          TEXT     NOT NULL,
    symbols           TEXT     NOT NULL,
    start_date        DATETIME NOT NULL,
    end_date          DATETIME NOT NULL,
    initial_cash      REAL     NOT NULL DEFAULT 0,
    monthly_deposit   REAL     NOT NULL DEFAULT 0,
    rebalance_period  INTEGER  NOT NULL DEFAULT 0,
    started_at        DATETIME NOT NULL,
    finished_at       DATETIME NOT NULL,
    final_value       REAL     NOT NULL DEFAULT 0,
    sharpe            REAL     NOT NULL DEFAULT 0,
    annualized_return REAL     NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_values (
    run_id TEXT     NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    date   DATETIME NOT NULL,
    total  REAL     NOT NULL,
    PRIMARY KEY (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`

// SQLiteStore implementa ports.RunStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica
// el schema. Usar ":memory:" para un store efímero.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRun persiste la fila del run y sus valores diarios en una transacción.
func (s *SQLiteStore) SaveRun(ctx context.Context, run backtest.Run) error {
	if run.ID == "" {
		return fmt.Errorf("storage.SaveRun: run has no ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs
			(id, strategy, symbols, start_date, end_date, initial_cash,
			 monthly_deposit, rebalance_period, started_at, finished_at,
			 final_value, sharpe, annualized_return)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Strategy,
		strings.Join(run.Symbols, ","),
		run.Start.UTC(),
		run.End.UTC(),
		run.InitialCash,
		run.MonthlyDeposit,
		run.RebalancePeriod,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.FinalValue,
		run.Sharpe,
		run.AnnualizedReturn,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_values (run_id, date, total) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare: %w", err)
	}
	defer stmt.Close()

	for _, dv := range run.Values {
		if _, err := stmt.ExecContext(ctx, run.ID, dv.Date.UTC(), dv.Total); err != nil {
			return fmt.Errorf("storage.SaveRun: insert value %s: %w",
				dv.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// ListRuns devuelve los runs más recientes, primero el más nuevo, sin su
// serie diaria de valores.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]backtest.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, symbols, start_date, end_date, initial_cash,
		       monthly_deposit, rebalance_period, started_at, finished_at,
		       final_value, sharpe, annualized_return
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []backtest.Run
	for rows.Next() {
		var run backtest.Run
		var symbols string
		if err := rows.Scan(
			&run.ID, &run.Strategy, &symbols, &run.Start, &run.End,
			&run.InitialCash, &run.MonthlyDeposit, &run.RebalancePeriod,
			&run.StartedAt, &run.FinishedAt,
			&run.FinalValue, &run.Sharpe, &run.AnnualizedReturn,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan: %w", err)
		}
		if symbols != "" {
			run.Symbols = strings.Split(symbols, ",")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunValues devuelve la serie diaria guardada de un run, ascendente.
func (s *SQLiteStore) GetRunValues(ctx context.Context, runID string) (backtest.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, total FROM run_values WHERE run_id = ? ORDER BY date ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRunValues: query %s: %w", runID, err)
	}
	defer rows.Close()

	var result backtest.Result
	for rows.Next() {
		var date time.Time
		var total float64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, fmt.Errorf("storage.GetRunValues: scan: %w", err)
		}
		result = append(result, backtest.DailyValue{Date: date, Total: total})
	}
	return result, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
