// Package report renderiza runs de backtest completados en la terminal.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlgoRichLabs/backtest/internal/backtest"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02"

// Console implementa ports.Reporter imprimiendo una tabla resumen.
type Console struct {
	out  io.Writer
	tail int
}

// NewConsole crea un reporter que escribe a stdout. tail es cuántos de los
// últimos valores diarios imprimir, 0 para ninguno.
func NewConsole(tail int) *Console {
	return &Console{out: os.Stdout, tail: tail}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, tail int) *Console {
	return &Console{out: w, tail: tail}
}

// Report imprime los parámetros del run y sus cifras resumen.
func (c *Console) Report(_ context.Context, run backtest.Run) error {
	fmt.Fprintf(c.out, "\n%s run %s: %s to %s, %d trading days\n",
		run.Strategy,
		run.ID,
		run.Start.Format(dateLayout),
		run.End.Format(dateLayout),
		len(run.Values),
	)

	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "Symbols", "Initial", "Deposit/mo", "Final value", "Sharpe", "Ann. return")
	table.Append(
		run.Strategy,
		strings.Join(run.Symbols, " "),
		fmt.Sprintf("$%.2f", run.InitialCash),
		fmt.Sprintf("$%.2f", run.MonthlyDeposit),
		fmt.Sprintf("$%.2f", run.FinalValue),
		fmt.Sprintf("%.4f", run.Sharpe),
		fmt.Sprintf("%.2f%%", run.AnnualizedReturn*100),
	)
	table.Render()

	if c.tail > 0 && len(run.Values) > 0 {
		c.printTail(run.Values)
	}

	return nil
}

// printTail imprime los últimos totales diarios.
func (c *Console) printTail(values backtest.Result) {
	start := len(values) - c.tail
	if start < 0 {
		start = 0
	}

	fmt.Fprintf(c.out, "last %d days:\n", len(values)-start)
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Total value")
	for _, dv := range values[start:] {
		table.Append(dv.Date.Format(dateLayout), fmt.Sprintf("$%.2f", dv.Total))
	}
	table.Render()
}
