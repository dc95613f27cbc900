package domain

import (
	"errors"
	"fmt"
)

// ErrOversoldPosition se devuelve cuando una venta dejaría la cantidad de
// una posición por debajo de cero. No se soportan cortos.
var ErrOversoldPosition = errors.New("oversold position")

// Position es el estado de las tenencias de un símbolo. El Portfolio la
// crea de forma perezosa en el primer fill y es su único dueño.
type Position struct {
	Symbol string
	// Amount es el número de unidades en cartera. Nunca negativo.
	Amount float64
	// AvgEntryPrice es la media ponderada por cantidad de todas las compras.
	// Cero hasta la primera compra; las ventas nunca lo modifican.
	AvgEntryPrice float64
	// Value es Amount × último precio de marcado.
	Value float64
	// UnrealizedPnL es (AvgEntryPrice − último precio de marcado) × Amount.
	UnrealizedPnL float64
}

// NewPosition crea una posición vacía para un símbolo.
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// OrderFilled aplica un fill y re-marca la posición al precio del fill.
// Una venta que sobrevendería falla con ErrOversoldPosition y deja la
// posición intacta.
func (p *Position) OrderFilled(o Order) error {
	switch o.Side {
	case Sell:
		if p.Amount-o.Quantity < 0 {
			return fmt.Errorf("%w: %s holds %v, sell %v", ErrOversoldPosition, p.Symbol, p.Amount, o.Quantity)
		}
		p.Amount -= o.Quantity
	case Buy:
		if p.AvgEntryPrice == 0 {
			p.AvgEntryPrice = o.FilledPrice
		} else {
			p.AvgEntryPrice = (p.Amount*p.AvgEntryPrice + o.Quantity*o.FilledPrice) /
				(p.Amount + o.Quantity)
		}
		p.Amount += o.Quantity
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrderSide, o.Side)
	}
	p.Mark(o.FilledPrice)
	return nil
}

// Mark recalcula Value y UnrealizedPnL contra un precio de referencia sin
// operar. El pnl solo tiene sentido cuando alguna compra ya fijó el precio
// medio de entrada; Value está bien definido en cualquier caso.
func (p *Position) Mark(price float64) {
	p.UnrealizedPnL = (p.AvgEntryPrice - price) * p.Amount
	p.Value = p.Amount * price
}
