package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/adapters/storage"
	"github.com/AlgoRichLabs/backtest/internal/backtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun() backtest.Run {
	day := func(n int) time.Time {
		return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
	}
	return backtest.Run{
		ID:               uuid.New().String(),
		Strategy:         "rebalance",
		Symbols:          []string{"SPY", "IWY"},
		Start:            day(1),
		End:              day(31),
		InitialCash:      0,
		MonthlyDeposit:   1000,
		RebalancePeriod:  252,
		StartedAt:        time.Now().UTC(),
		FinishedAt:       time.Now().UTC(),
		FinalValue:       1020.5,
		Sharpe:           0.8312,
		AnnualizedReturn: 0.0712,
		Values: backtest.Result{
			{Date: day(2), Total: 1000},
			{Date: day(3), Total: 1010},
			{Date: day(4), Total: 1020.5},
		},
	}
}

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	run := testRun()

	require.NoError(t, store.SaveRun(ctx, run))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "rebalance", got.Strategy)
	assert.Equal(t, []string{"SPY", "IWY"}, got.Symbols)
	assert.Equal(t, 252, got.RebalancePeriod)
	assert.InDelta(t, 1020.5, got.FinalValue, 1e-9)
	assert.InDelta(t, 0.8312, got.Sharpe, 1e-9)
	assert.Empty(t, got.Values) // ListRuns omits the series
}

func TestSQLiteStore_GetRunValues(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	run := testRun()
	require.NoError(t, store.SaveRun(ctx, run))

	values, err := store.GetRunValues(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, run.Values[0].Date, values[0].Date.UTC())
	assert.InDelta(t, 1000.0, values[0].Total, 1e-9)
	assert.InDelta(t, 1020.5, values[2].Total, 1e-9)
}

func TestSQLiteStore_SaveRunWithoutID(t *testing.T) {
	store := newStore(t)
	run := testRun()
	run.ID = ""
	assert.Error(t, store.SaveRun(context.Background(), run))
}

func TestSQLiteStore_ListRunsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	older := testRun()
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	newer := testRun()
	require.NoError(t, store.SaveRun(ctx, older))
	require.NoError(t, store.SaveRun(ctx, newer))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}
