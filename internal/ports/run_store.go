package ports

import (
	"context"

	"github.com/AlgoRichLabs/backtest/internal/backtest"
)

// RunStore persiste runs de backtest completados para compararlos después.
type RunStore interface {
	// SaveRun persiste un run con su serie diaria de valores completa.
	SaveRun(ctx context.Context, run backtest.Run) error

	// ListRuns devuelve los runs más recientes, primero el más nuevo, sin
	// su serie diaria de valores.
	ListRuns(ctx context.Context, limit int) ([]backtest.Run, error)

	// GetRunValues devuelve la serie diaria de valores de un run guardado.
	GetRunValues(ctx context.Context, runID string) (backtest.Result, error)

	// Close libera la base de datos subyacente de forma limpia.
	Close() error
}
