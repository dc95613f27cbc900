package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlgoRichLabs/backtest/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	strategyName := flag.String("strategy", "baseline", "strategy: baseline|rebalance")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols, e.g. SPY,IWY")
	fetch := flag.Bool("fetch", false, "download daily candles from OKX into the data dir and exit")
	noStore := flag.Bool("no-store", false, "do not persist the run")
	tail := flag.Int("tail", 0, "print the last N daily values after the summary")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	symbols := splitSymbols(*symbolsFlag)
	if len(symbols) == 0 {
		slog.Error("no symbols given, use -symbols SPY,IWY")
		os.Exit(1)
	}

	slog.Info("backtest starting",
		"config", *configPath,
		"strategy", *strategyName,
		"symbols", symbols,
		"fetch", *fetch,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *fetch {
		runFetch(ctx, cfg, symbols)
		return
	}

	runBacktest(ctx, cfg, *strategyName, symbols, *noStore, *tail)
}

// splitSymbols parses the -symbols flag into a clean symbol list.
func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
