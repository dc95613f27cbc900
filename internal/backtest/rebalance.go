package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

// IndexRebalance reparte un depósito mensual fijo en partes iguales entre
// N símbolos y devuelve las tenencias hacia pesos iguales cada
// RebalancePeriod días de trading. Solo se simulan las fechas cotizadas por
// todos los símbolos: un día en el que falta cualquiera se salta para todos.
type IndexRebalance struct {
	cfg       Config
	portfolio *domain.Portfolio
	series    map[string]domain.Series
}

// NewIndexRebalance crea una estrategia IndexRebalance con un portfolio
// nuevo y sin símbolos cargados.
func NewIndexRebalance(cfg Config) *IndexRebalance {
	return &IndexRebalance{
		cfg:       cfg,
		portfolio: domain.NewPortfolio(cfg.InitialCash),
		series:    make(map[string]domain.Series),
	}
}

// Snapshot devuelve el estado actual del portfolio, el estado final una
// vez que Run retornó.
func (r *IndexRebalance) Snapshot() domain.Snapshot {
	return r.portfolio.Snapshot()
}

// LoadHistory registra la serie de un símbolo. Llamar una vez por símbolo.
func (r *IndexRebalance) LoadHistory(symbol string, series domain.Series) {
	r.series[symbol] = series.Normalize().Clip(r.cfg.Start, r.cfg.End)
}

// Run itera el calendario común de todos los símbolos cargados. Cada mes
// de calendario nuevo deposita y reparte el cash en partes iguales; cada
// RebalancePeriod días de trading (contados desde el día cero, que por
// tanto también rebalancea) las tenencias vuelven a pesos iguales, ventas
// antes que compras.
func (r *IndexRebalance) Run(ctx context.Context) (Result, error) {
	if len(r.series) == 0 {
		return nil, ErrDataNotLoaded
	}

	period := r.cfg.RebalancePeriod
	if period <= 0 {
		period = DefaultRebalancePeriod
	}

	symbols := make([]string, 0, len(r.series))
	all := make([]domain.Series, 0, len(r.series))
	closes := make(map[string]map[time.Time]float64, len(r.series))
	for symbol, s := range r.series {
		symbols = append(symbols, symbol)
		all = append(all, s)
		closes[symbol] = s.Closes()
	}
	sort.Strings(symbols)
	dates := domain.CommonDates(all...)

	var currentMonth time.Month
	invested := false
	result := make(Result, 0, len(dates))

	for day, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prices := make(map[string]float64, len(symbols))
		for _, symbol := range symbols {
			prices[symbol] = closes[symbol][date]
		}

		if date.Month() != currentMonth {
			currentMonth = date.Month()
			r.portfolio.AddCashFlow(r.cfg.MonthlyDeposit)
			invested = false
		}

		if !invested {
			if err := r.investBatch(prices, symbols); err != nil {
				return nil, fmt.Errorf("rebalance: %s: %w", date.Format("2006-01-02"), err)
			}
			r.portfolio.MarkPrices(prices)
			invested = true
		}

		if day%period == 0 {
			if err := r.rebalance(prices, symbols); err != nil {
				return nil, fmt.Errorf("rebalance: %s: %w", date.Format("2006-01-02"), err)
			}
		}

		r.portfolio.MarkPrices(prices)
		snap := r.portfolio.Snapshot()
		result = append(result, DailyValue{Date: date, Total: snap.Value + snap.Cash})
	}

	slog.Info("index rebalance run complete",
		"symbols", symbols,
		"rebalance_period", period,
		"days", len(result),
		"final_value", result.Final(),
	)
	return result, nil
}

// investBatch reparte el cash disponible en partes iguales entre todos los
// símbolos y compra floor(batch/price) unidades de cada uno.
func (r *IndexRebalance) investBatch(prices map[string]float64, symbols []string) error {
	batch := r.portfolio.Cash() / float64(len(symbols))
	for _, symbol := range symbols {
		price := prices[symbol]
		order, err := domain.NewOrder(symbol, domain.Buy, price, math.Floor(batch/price))
		if err != nil {
			return err
		}
		if err := r.portfolio.OrderFilled(order); err != nil {
			return fmt.Errorf("invest %s: %w", symbol, err)
		}
	}
	return nil
}

// rebalance marca el portfolio a precios actuales, calcula el target de
// peso igual por símbolo a partir del valor total de las posiciones (sin
// cash) y opera cada símbolo hacia él. Las cantidades se quedan una unidad
// cortas del target en ambos lados: las ventas son held-desired+1 y las
// compras desired-held-1, así que un símbolo ya en su target aún suelta una
// unidad. Todas las ventas se aplican antes que cualquier compra para que
// las ventas financien las compras.
func (r *IndexRebalance) rebalance(prices map[string]float64, symbols []string) error {
	r.portfolio.MarkPrices(prices)
	target := r.portfolio.Value() / float64(len(symbols))

	var sells, buys []domain.Order
	for _, symbol := range symbols {
		price := prices[symbol]
		desired := math.Floor(target / price)
		held := r.portfolio.Amount(symbol)

		var order domain.Order
		var err error
		if held >= desired {
			order, err = domain.NewOrder(symbol, domain.Sell, price, held-desired+1)
			if err == nil {
				sells = append(sells, order)
			}
		} else {
			order, err = domain.NewOrder(symbol, domain.Buy, price, desired-held-1)
			if err == nil {
				buys = append(buys, order)
			}
		}
		if err != nil {
			return err
		}
	}

	for _, order := range append(sells, buys...) {
		if err := r.portfolio.OrderFilled(order); err != nil {
			return fmt.Errorf("%s %s: %w", order.Side, order.Symbol, err)
		}
	}

	r.portfolio.MarkPrices(prices)
	return nil
}
