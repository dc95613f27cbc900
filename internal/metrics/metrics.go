// Package metrics computes summary statistics over a backtest's daily
// total-value series.
package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization base for daily series.
const TradingDaysPerYear = 252

// ErrNotEnoughData is returned when a series is too short to compute a
// statistic.
var ErrNotEnoughData = errors.New("metrics: not enough data points")

// ErrZeroVariance is returned when every period return is identical, making
// the Sharpe ratio undefined.
var ErrZeroVariance = errors.New("metrics: zero return variance")

// Returns converts a value series into period-over-period returns:
// r[i] = (v[i+1] − v[i]) / v[i]. Zero denominators yield a zero return.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			out[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}
	return out
}

// Sharpe returns mean/stddev of the daily returns, rounded to 4 decimals.
func Sharpe(values []float64) (float64, error) {
	returns := Returns(values)
	if len(returns) < 2 {
		return 0, ErrNotEnoughData
	}

	sd := stat.StdDev(returns, nil)
	if sd == 0 {
		return 0, ErrZeroVariance
	}
	return math.Round(stat.Mean(returns, nil)/sd*10000) / 10000, nil
}

// AnnualizedReturn compounds the series' total return down to a yearly
// rate, treating the series as daily closes.
func AnnualizedReturn(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, ErrNotEnoughData
	}
	if values[0] == 0 {
		return 0, ErrNotEnoughData
	}

	years := float64(len(values)) / TradingDaysPerYear
	total := values[len(values)-1] / values[0]
	return math.Pow(total, 1/years) - 1, nil
}
