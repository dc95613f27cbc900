package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

// Baseline es la estrategia dollar-cost-averaging de un solo activo: en
// cada mes de calendario nuevo deposita una cantidad fija e invierte todo
// el balance de cash al cierre de ese día. Nunca vende.
type Baseline struct {
	cfg       Config
	portfolio *domain.Portfolio
	symbol    string
	series    domain.Series
	loaded    bool
}

// NewBaseline crea una estrategia Baseline con un portfolio nuevo.
func NewBaseline(cfg Config) *Baseline {
	return &Baseline{
		cfg:       cfg,
		portfolio: domain.NewPortfolio(cfg.InitialCash),
	}
}

// Snapshot devuelve el estado actual del portfolio, el estado final una
// vez que Run retornó.
func (b *Baseline) Snapshot() domain.Snapshot {
	return b.portfolio.Snapshot()
}

// LoadHistory registra el único símbolo a operar. Llamarlo otra vez
// reemplaza la serie anterior.
func (b *Baseline) LoadHistory(symbol string, series domain.Series) {
	b.symbol = symbol
	b.series = series.Normalize().Clip(b.cfg.Start, b.cfg.End)
	b.loaded = true
}

// Run itera la serie cargada en orden de fecha. Cada mes de calendario
// nuevo deposita MonthlyDeposit y compra floor(cash/close) unidades; cada
// día el portfolio se marca al cierre y se registra el total del día.
func (b *Baseline) Run(ctx context.Context) (Result, error) {
	if !b.loaded {
		return nil, ErrDataNotLoaded
	}

	var currentMonth time.Month
	invested := false
	result := make(Result, 0, len(b.series))

	for _, c := range b.series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.Date.Month() != currentMonth {
			currentMonth = c.Date.Month()
			b.portfolio.AddCashFlow(b.cfg.MonthlyDeposit)
			invested = false
		}

		if !invested {
			quantity := math.Floor(b.portfolio.Cash() / c.Close)
			order, err := domain.NewOrder(b.symbol, domain.Buy, c.Close, quantity)
			if err != nil {
				return nil, err
			}
			if err := b.portfolio.OrderFilled(order); err != nil {
				return nil, fmt.Errorf("baseline: %s %s: %w",
					c.Date.Format("2006-01-02"), b.symbol, err)
			}
			invested = true
		}

		b.portfolio.MarkPrices(map[string]float64{b.symbol: c.Close})
		snap := b.portfolio.Snapshot()
		result = append(result, DailyValue{Date: c.Date, Total: snap.Value + snap.Cash})
	}

	slog.Info("baseline run complete",
		"symbol", b.symbol,
		"days", len(result),
		"final_value", result.Final(),
	)
	return result, nil
}
