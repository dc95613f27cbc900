package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/adapters/report"
	"github.com/AlgoRichLabs/backtest/internal/backtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() backtest.Run {
	day := func(n int) time.Time {
		return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
	}
	return backtest.Run{
		ID:               "run-1",
		Strategy:         "baseline",
		Symbols:          []string{"SPY"},
		Start:            day(1),
		End:              day(31),
		MonthlyDeposit:   1000,
		FinalValue:       1234.56,
		Sharpe:           0.8312,
		AnnualizedReturn: 0.0712,
		Values: backtest.Result{
			{Date: day(2), Total: 1000},
			{Date: day(3), Total: 1234.56},
		},
	}
}

func TestConsole_Report(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, 0)

	require.NoError(t, c.Report(context.Background(), sampleRun()))

	out := buf.String()
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "SPY")
	assert.Contains(t, out, "1234.56")
	assert.Contains(t, out, "0.8312")
	assert.Contains(t, out, "7.12%")
	assert.NotContains(t, out, "last 2 days")
}

func TestConsole_Report_WithTail(t *testing.T) {
	var buf bytes.Buffer
	c := report.NewConsoleWriter(&buf, 5)

	require.NoError(t, c.Report(context.Background(), sampleRun()))

	out := buf.String()
	assert.Contains(t, out, "last 2 days")
	assert.Contains(t, out, "2024-01-02")
	assert.Contains(t, out, "2024-01-03")
}
