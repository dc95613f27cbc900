package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AlgoRichLabs/backtest/config"
	"github.com/AlgoRichLabs/backtest/internal/adapters/csvdata"
	"github.com/AlgoRichLabs/backtest/internal/adapters/report"
	"github.com/AlgoRichLabs/backtest/internal/adapters/storage"
	"github.com/AlgoRichLabs/backtest/internal/backtest"
	"github.com/AlgoRichLabs/backtest/internal/metrics"
	"github.com/AlgoRichLabs/backtest/internal/ports"
	"github.com/google/uuid"
)

// runBacktest wires the concrete adapters (CSV loader, console reporter,
// SQLite store) and hands them to executeRun through the port interfaces.
func runBacktest(ctx context.Context, cfg *config.Config, strategyName string, symbols []string, noStore bool, tail int) {
	provider := csvdata.NewLoader(cfg.Data.Dir)
	reporter := report.NewConsole(tail)

	var store ports.RunStore
	if !noStore {
		s, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open run store", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	if err := executeRun(ctx, cfg, provider, reporter, store, strategyName, symbols); err != nil {
		slog.Error("run failed", "strategy", strategyName, "err", err)
		os.Exit(1)
	}
}

// executeRun loads the history for every symbol, runs the chosen strategy
// over it, reports the result and, when a store is given, persists it.
func executeRun(ctx context.Context, cfg *config.Config, provider ports.HistoryProvider, reporter ports.Reporter, store ports.RunStore, strategyName string, symbols []string) error {
	start, end, err := cfg.Window()
	if err != nil {
		return err
	}

	btCfg := backtest.Config{
		InitialCash:     cfg.Backtest.InitialCash,
		MonthlyDeposit:  cfg.Backtest.MonthlyDeposit,
		Start:           start,
		End:             end,
		RebalancePeriod: cfg.Backtest.RebalancePeriodDays,
	}

	strat, err := newStrategy(strategyName, symbols, btCfg)
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		series, err := provider.LoadHistory(ctx, symbol)
		if err != nil {
			return err
		}
		slog.Debug("history loaded", "symbol", symbol, "rows", len(series))
		strat.LoadHistory(symbol, series)
	}

	startedAt := time.Now().UTC()
	result, err := strat.Run(ctx)
	if err != nil {
		return err
	}

	run := backtest.Run{
		ID:              uuid.New().String(),
		Strategy:        strategyName,
		Symbols:         symbols,
		Start:           start,
		End:             end,
		InitialCash:     btCfg.InitialCash,
		MonthlyDeposit:  btCfg.MonthlyDeposit,
		RebalancePeriod: btCfg.RebalancePeriod,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC(),
		FinalValue:      result.Final(),
		Values:          result,
	}

	if sharpe, err := metrics.Sharpe(result.Totals()); err != nil {
		slog.Warn("sharpe unavailable", "err", err)
	} else {
		run.Sharpe = sharpe
	}
	if annualized, err := metrics.AnnualizedReturn(result.Totals()); err != nil {
		slog.Warn("annualized return unavailable", "err", err)
	} else {
		run.AnnualizedReturn = annualized
	}

	if err := reporter.Report(ctx, run); err != nil {
		slog.Warn("reporter error", "err", err)
	}

	if store == nil {
		return nil
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	slog.Info("run saved", "id", run.ID, "dsn", cfg.Storage.DSN)
	return nil
}

func newStrategy(name string, symbols []string, cfg backtest.Config) (backtest.Strategy, error) {
	switch name {
	case "baseline":
		if len(symbols) != 1 {
			return nil, fmt.Errorf("main.newStrategy: baseline strategy takes exactly one symbol, got %d", len(symbols))
		}
		return backtest.NewBaseline(cfg), nil
	case "rebalance":
		return backtest.NewIndexRebalance(cfg), nil
	default:
		return nil, fmt.Errorf("main.newStrategy: unknown strategy %q", name)
	}
}
