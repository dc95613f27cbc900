package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientCash se devuelve cuando una orden dejaría el balance de
// cash del portfolio por debajo de cero. La estrategia nunca debe emitir una
// orden que no puede pagar, así que es fatal para el run.
var ErrInsufficientCash = errors.New("insufficient cash")

// Portfolio agrega un balance de cash con posiciones por símbolo. Es el
// único dueño de las posiciones; nadie fuera guarda una referencia viva.
type Portfolio struct {
	cash      float64
	positions map[string]*Position
	value     float64
}

// Snapshot es una copia por valor del estado del portfolio en un instante.
type Snapshot struct {
	Value     float64
	Cash      float64
	Positions map[string]Position
}

// NewPortfolio crea un portfolio que solo contiene el cash inicial.
func NewPortfolio(initialCash float64) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]*Position),
		value:     initialCash,
	}
}

// AddCashFlow ajusta el balance de cash. Las estrategias solo inyectan
// depósitos periódicos positivos, pero aquí no se restringe el signo.
func (p *Portfolio) AddCashFlow(value float64) {
	p.cash += value
}

// Cash devuelve el balance de cash actual.
func (p *Portfolio) Cash() float64 { return p.cash }

// Value devuelve la suma del valor de todas las posiciones según la última
// llamada a MarkPrices. No incluye el cash.
func (p *Portfolio) Value() float64 { return p.value }

// Amount devuelve las unidades en cartera de un símbolo, 0 si nunca se operó.
func (p *Portfolio) Amount(symbol string) float64 {
	if pos, ok := p.positions[symbol]; ok {
		return pos.Amount
	}
	return 0
}

// OrderFilled debita o acredita cash y aplica el fill a la posición del
// símbolo, creándola en el primer uso. No se confirma nada si falla el
// check de cash o la actualización de la posición.
func (p *Portfolio) OrderFilled(o Order) error {
	cash := p.cash - o.Value
	if cash < 0 {
		return fmt.Errorf("%w: %s %s %v @ %v leaves cash %v",
			ErrInsufficientCash, o.Side, o.Symbol, o.Quantity, o.FilledPrice, cash)
	}

	pos, ok := p.positions[o.Symbol]
	if !ok {
		pos = NewPosition(o.Symbol)
	}
	if err := pos.OrderFilled(o); err != nil {
		return err
	}

	p.positions[o.Symbol] = pos
	p.cash = cash
	return nil
}

// MarkPrices re-marca cada símbolo en cartera presente en el mapa de
// precios y recalcula el valor total de las posiciones. Los símbolos en
// cartera ausentes del mapa conservan su valor anterior: el caller debe
// pasar un mapa completo para todo lo que tiene, o la valoración se atrasa.
func (p *Portfolio) MarkPrices(prices map[string]float64) {
	for symbol, price := range prices {
		if pos, ok := p.positions[symbol]; ok {
			pos.Mark(price)
		}
	}

	total := 0.0
	for _, pos := range p.positions {
		total += pos.Value
	}
	p.value = total
}

// Snapshot devuelve una copia independiente del estado actual. Mutar el
// mapa de posiciones devuelto no afecta al portfolio.
func (p *Portfolio) Snapshot() Snapshot {
	positions := make(map[string]Position, len(p.positions))
	for symbol, pos := range p.positions {
		positions[symbol] = *pos
	}
	return Snapshot{Value: p.value, Cash: p.cash, Positions: positions}
}
