package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRebalance_RunWithoutHistory(t *testing.T) {
	r := NewIndexRebalance(Config{MonthlyDeposit: 1000})
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrDataNotLoaded)
}

func TestIndexRebalance_FirstDayInvestsAndRebalances(t *testing.T) {
	// Two symbols at the same constant price. Day zero: deposit 1000, buy
	// 50+50, then the day-zero rebalance sells one unit of each (held ==
	// desired still sells one, the deliberate cash-cushion bias).
	r := NewIndexRebalance(Config{
		MonthlyDeposit:  1000,
		Start:           d(2024, 1, 1),
		End:             d(2024, 1, 31),
		RebalancePeriod: 252,
	})
	closes := map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 3): 10,
		d(2024, 1, 4): 10,
	}
	r.LoadHistory("AAA", series(closes))
	r.LoadHistory("BBB", series(closes))

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 3)

	for _, dv := range result {
		assert.InDelta(t, 1000.0, dv.Total, 1e-9)
	}

	snap := r.Snapshot()
	assert.Equal(t, 49.0, snap.Positions["AAA"].Amount)
	assert.Equal(t, 49.0, snap.Positions["BBB"].Amount)
	assert.InDelta(t, 20.0, snap.Cash, 1e-9)
	assert.GreaterOrEqual(t, snap.Cash, 0.0)
}

func TestIndexRebalance_EqualPricesKeepHoldingsEqual(t *testing.T) {
	// With equal constant prices every rebalance must leave the two
	// holdings equal and cash non-negative.
	r := NewIndexRebalance(Config{
		MonthlyDeposit:  1000,
		Start:           d(2024, 1, 1),
		End:             d(2024, 1, 31),
		RebalancePeriod: 1, // rebalance every trading day
	})
	closes := map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 3): 10,
	}
	r.LoadHistory("AAA", series(closes))
	r.LoadHistory("BBB", series(closes))

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	// día 0: compra 50+50, luego vende 1 de cada uno → 49/49, cash 20
	// día 1: valor 980, target 490, desired 49 == held → vende 1 de cada uno otra vez
	snap := r.Snapshot()
	assert.Equal(t, snap.Positions["AAA"].Amount, snap.Positions["BBB"].Amount)
	assert.Equal(t, 48.0, snap.Positions["AAA"].Amount)
	assert.InDelta(t, 40.0, snap.Cash, 1e-9)
	assert.InDelta(t, 1000.0, result[1].Total, 1e-9)
}

func TestIndexRebalance_SellsFundBuys(t *testing.T) {
	// Day one halves BBB's price. The rebalance must sell AAA first so the
	// BBB buy is affordable.
	r := NewIndexRebalance(Config{
		MonthlyDeposit:  1000,
		Start:           d(2024, 1, 1),
		End:             d(2024, 1, 31),
		RebalancePeriod: 1,
	})
	r.LoadHistory("AAA", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 3): 10,
	}))
	r.LoadHistory("BBB", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 3): 5,
	}))

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	// day 0 ends 49/49, cash 20. day 1: value 49×10+49×5 = 735, target
	// 367.5 → AAA sell 49−36+1 = 14, BBB buy 73−49−1 = 23.
	snap := r.Snapshot()
	assert.Equal(t, 35.0, snap.Positions["AAA"].Amount)
	assert.Equal(t, 72.0, snap.Positions["BBB"].Amount)
	assert.InDelta(t, 45.0, snap.Cash, 1e-9)
	assert.InDelta(t, 755.0, result[1].Total, 1e-9)
}

func TestIndexRebalance_CommonCalendarSkipsMissingDates(t *testing.T) {
	r := NewIndexRebalance(Config{
		MonthlyDeposit:  1000,
		Start:           d(2024, 1, 1),
		End:             d(2024, 1, 31),
		RebalancePeriod: 252,
	})
	r.LoadHistory("AAA", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 3): 10,
		d(2024, 1, 4): 10,
	}))
	r.LoadHistory("BBB", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 1, 4): 10, // no quote on the 3rd
	}))

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, d(2024, 1, 2), result[0].Date)
	assert.Equal(t, d(2024, 1, 4), result[1].Date)
}

func TestIndexRebalance_MonthlyDepositSplitsEvenly(t *testing.T) {
	// February's deposit is split across both symbols at their prices.
	r := NewIndexRebalance(Config{
		MonthlyDeposit:  1000,
		Start:           d(2024, 1, 1),
		End:             d(2024, 2, 28),
		RebalancePeriod: 252,
	})
	r.LoadHistory("AAA", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 2, 1): 10,
	}))
	r.LoadHistory("BBB", series(map[time.Time]float64{
		d(2024, 1, 2): 10,
		d(2024, 2, 1): 20,
	}))

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	// day 0: buy 50/50, rebalance sells 1 each → 49/49, cash 20.
	// Feb 1: cash 1020, batch 510 → AAA +51 @10, BBB +25 @20 (floor).
	snap := r.Snapshot()
	assert.Equal(t, 100.0, snap.Positions["AAA"].Amount)
	assert.Equal(t, 74.0, snap.Positions["BBB"].Amount)
	assert.GreaterOrEqual(t, snap.Cash, 0.0)
}
