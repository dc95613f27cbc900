package backtest

import "time"

// DailyValue es un día del output de un run: el equity total (valor de las
// posiciones más cash) al cierre de ese día.
type DailyValue struct {
	Date  time.Time
	Total float64
}

// Result es la serie cronológica de valores diarios que produce un run,
// una entrada por día de trading simulado.
type Result []DailyValue

// Totals devuelve solo los valores en orden de fecha, la forma que
// consumen las estadísticas basadas en retornos.
func (r Result) Totals() []float64 {
	out := make([]float64, len(r))
	for i, dv := range r {
		out[i] = dv.Total
	}
	return out
}

// Final devuelve el total del último día, 0 para un result vacío.
func (r Result) Final() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1].Total
}

// Run es un backtest completado con sus parámetros y cifras resumen, la
// unidad que persiste el run store y renderizan los reporters.
type Run struct {
	ID               string
	Strategy         string
	Symbols          []string
	Start            time.Time
	End              time.Time
	InitialCash      float64
	MonthlyDeposit   float64
	RebalancePeriod  int
	StartedAt        time.Time
	FinishedAt       time.Time
	FinalValue       float64
	Sharpe           float64
	AnnualizedReturn float64
	Values           Result
}
