package ports

import (
	"context"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

// HistoryProvider carga el histórico de cierres diarios de un símbolo.
type HistoryProvider interface {
	// LoadHistory devuelve la serie completa registrada para el símbolo,
	// normalizada (sin duplicados, ascendente por fecha).
	LoadHistory(ctx context.Context, symbol string) (domain.Series, error)
}
