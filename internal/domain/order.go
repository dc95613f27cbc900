package domain

import (
	"errors"
	"fmt"
)

// Side es la dirección de una orden.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ErrInvalidOrderSide se devuelve cuando una orden se construye con un side
// distinto de Buy o Sell. Señala un bug en la estrategia, no datos malos.
var ErrInvalidOrderSide = errors.New("invalid order side")

// Order es el registro inmutable de un fill.
type Order struct {
	Symbol      string
	Side        Side
	FilledPrice float64
	Quantity    float64
	// Value es el impacto en cash del fill con signo: +precio×cantidad en
	// una compra, −precio×cantidad en una venta. Fijado en la construcción.
	Value float64
}

// NewOrder construye una Order y calcula su valor en cash una sola vez.
func NewOrder(symbol string, side Side, filledPrice, quantity float64) (Order, error) {
	o := Order{
		Symbol:      symbol,
		Side:        side,
		FilledPrice: filledPrice,
		Quantity:    quantity,
	}
	switch side {
	case Buy:
		o.Value = filledPrice * quantity
	case Sell:
		o.Value = -filledPrice * quantity
	default:
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidOrderSide, side)
	}
	return o, nil
}
