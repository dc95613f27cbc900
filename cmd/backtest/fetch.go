package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/AlgoRichLabs/backtest/config"
	"github.com/AlgoRichLabs/backtest/internal/adapters/csvdata"
	"github.com/AlgoRichLabs/backtest/internal/adapters/okx"
)

// runFetch downloads the daily candle history for each symbol from OKX and
// writes it into the CSV data directory the loader reads.
func runFetch(ctx context.Context, cfg *config.Config, symbols []string) {
	start, end, err := cfg.Window()
	if err != nil {
		slog.Error("invalid fetch window", "err", err)
		os.Exit(1)
	}

	client := okx.NewClient(cfg.Data.OKXBaseURL)

	failed := 0
	for _, symbol := range symbols {
		series, err := client.FetchDailyHistory(ctx, symbol, start, end)
		if err != nil {
			slog.Error("fetch failed", "symbol", symbol, "err", err)
			failed++
			continue
		}
		if err := csvdata.Save(cfg.Data.Dir, symbol, series); err != nil {
			slog.Error("save failed", "symbol", symbol, "err", err)
			failed++
			continue
		}
		slog.Info("history saved", "symbol", symbol, "days", len(series), "dir", cfg.Data.Dir)
	}

	if failed > 0 {
		slog.Error("fetch finished with failures", "failed", failed, "total", len(symbols))
		os.Exit(1)
	}
}
