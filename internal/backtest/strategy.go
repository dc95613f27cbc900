package backtest

import (
	"context"
	"errors"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

// ErrDataNotLoaded lo devuelve Run cuando no se cargó ningún histórico.
var ErrDataNotLoaded = errors.New("historical data not loaded")

// Strategy dirige una simulación sobre el histórico de precios cargado
// previamente. Las implementaciones son single-threaded y no guardan estado
// global, así que instancias independientes pueden correr en paralelo.
type Strategy interface {
	// LoadHistory registra la serie de cierres diarios de un símbolo. La
	// serie se normaliza y recorta a la ventana configurada antes de usarse.
	LoadHistory(symbol string, series domain.Series)

	// Run recorre el histórico cargado y devuelve la serie diaria de valor
	// total. Falla rápido ante la primera violación de invariante.
	Run(ctx context.Context) (Result, error)
}

// Config contiene los parámetros de run compartidos por las estrategias.
type Config struct {
	// InitialCash es el balance de cash antes del primer depósito.
	InitialCash float64
	// MonthlyDeposit se inyecta el primer día de trading de cada mes.
	MonthlyDeposit float64
	// Start y End acotan la ventana de simulación, ambos incluidos.
	Start time.Time
	End   time.Time
	// RebalancePeriod es el número de días de trading entre rebalanceos.
	// Solo la estrategia IndexRebalance lo lee; 0 significa el default.
	RebalancePeriod int
}

// DefaultRebalancePeriod es un año de trading.
const DefaultRebalancePeriod = 252
