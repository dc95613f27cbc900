package ports

import (
	"context"

	"github.com/AlgoRichLabs/backtest/internal/backtest"
)

// Reporter presenta un run completado al usuario.
type Reporter interface {
	// Report renderiza los parámetros del run y sus cifras resumen. La
	// implementación de consola imprime una tabla formateada.
	Report(ctx context.Context, run backtest.Run) error
}
