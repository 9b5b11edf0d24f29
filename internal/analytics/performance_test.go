package analytics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func closed(dir domain.Direction, size, entry, exit float64) domain.Trade {
	return domain.Trade{Symbol: "TEST", Direction: dir, Size: size, EntryPrice: entry, ExitPrice: exit}
}

func TestComputeMetrics_WinAndLoss(t *testing.T) {
	trades := []domain.Trade{
		closed(domain.DirectionBuy, 100, 150, 155),
		closed(domain.DirectionBuy, 50, 2500, 2450),
	}

	m := ComputeMetrics(trades)

	assert.Equal(t, 2, m.TotalTrades)
	assert.Equal(t, 2, m.CompletedTrades)
	assert.Equal(t, -2000.0, m.TotalProfitLoss)
	assert.Equal(t, 1, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.Equal(t, 50.0, m.WinRate)
	assert.Equal(t, 500.0, m.AvgWin)
	assert.Equal(t, 2500.0, m.AvgLoss)
	assert.Equal(t, 0.2, m.ProfitFactor)
	assert.Equal(t, 2500.0, m.MaxDrawdown) // peak 500, trough -2000
	assert.Equal(t, -1000.0, m.Expectancy)
	assert.Equal(t, 500.0, m.BestTrade)
	assert.Equal(t, -2500.0, m.WorstTrade)
	assert.Equal(t, 1.5, m.SharpeRatio)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Equal(t, PerformanceSummary{SharpeRatio: SharpeRatioPlaceholder}, m)
}

func TestComputeMetrics_OpenTradesAreCountedButNotFolded(t *testing.T) {
	trades := []domain.Trade{
		{Direction: domain.DirectionBuy, Size: 10, EntryPrice: 100},                // open
		{Direction: domain.DirectionBuy, Size: 10, EntryPrice: 100, ExitPrice: -5}, // open
		closed(domain.DirectionSell, 10, 100, 90),
	}

	m := ComputeMetrics(trades)
	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 1, m.CompletedTrades)
	assert.Equal(t, 100.0, m.TotalProfitLoss)
	assert.Equal(t, 100.0, m.WinRate)
}

func TestComputeMetrics_ZeroProfitCountsAsLoss(t *testing.T) {
	m := ComputeMetrics([]domain.Trade{closed(domain.DirectionBuy, 1, 10, 10)})
	assert.Equal(t, 0, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.AvgLoss)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 0.0, m.WorstTrade)
}

func TestComputeMetrics_BestAndWorstFloorAtZero(t *testing.T) {
	allLosses := ComputeMetrics([]domain.Trade{
		closed(domain.DirectionBuy, 1, 10, 9),
		closed(domain.DirectionShort, 1, 10, 12),
	})
	assert.Equal(t, 0.0, allLosses.BestTrade)
	assert.Equal(t, -2.0, allLosses.WorstTrade)

	allWins := ComputeMetrics([]domain.Trade{
		closed(domain.DirectionCover, 1, 10, 11),
		closed(domain.DirectionSell, 1, 10, 7),
	})
	assert.Equal(t, 3.0, allWins.BestTrade)
	assert.Equal(t, 0.0, allWins.WorstTrade)
	assert.Equal(t, 0.0, allWins.ProfitFactor, "no losing trades means profit factor 0")
	assert.Equal(t, 0.0, allWins.MaxDrawdown)
}

func TestComputeMetrics_DrawdownIsOrderSensitive(t *testing.T) {
	up := closed(domain.DirectionBuy, 1, 100, 200)  // +100
	down := closed(domain.DirectionBuy, 1, 100, 40) // -60
	dip := closed(domain.DirectionBuy, 1, 100, 70)  // -30

	assert.Equal(t, 60.0, ComputeMetrics([]domain.Trade{up, down}).MaxDrawdown)
	// Starting below the zero peak: drawdown measured from 0.
	assert.Equal(t, 60.0, ComputeMetrics([]domain.Trade{down, up}).MaxDrawdown)

	// Same trades, same total, different curve.
	a := ComputeMetrics([]domain.Trade{up, down, dip})
	b := ComputeMetrics([]domain.Trade{down, up, dip})
	assert.Equal(t, a.TotalProfitLoss, b.TotalProfitLoss)
	assert.Equal(t, 90.0, a.MaxDrawdown)
	assert.Equal(t, 60.0, b.MaxDrawdown)
}

func TestComputeMetrics_Rounding(t *testing.T) {
	m := ComputeMetrics([]domain.Trade{
		closed(domain.DirectionBuy, 3, 1.111, 1.116),  // +0.015
		closed(domain.DirectionBuy, 1, 10, 9.99),      // -0.01
		closed(domain.DirectionBuy, 1, 10, 10.333333), // +0.333333
	})
	assert.Equal(t, 66.67, m.WinRate)
	assert.Equal(t, 0.34, m.TotalProfitLoss)
	assert.Equal(t, 0.11, m.Expectancy)
}

func TestRound2_UsesExactBinaryValue(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1.005, want: 1.00}, // stored as 1.00499999...
		{in: 2.675, want: 2.67}, // stored as 2.67499999...
		{in: 0.125, want: 0.13}, // exact tie rounds away from zero
		{in: -0.125, want: -0.13},
		{in: 1.015, want: 1.01}, // stored as 1.01499999...
		{in: 0, want: 0},
		{in: 1234.5678, want: 1234.57},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}

	m := ComputeMetrics([]domain.Trade{closed(domain.DirectionBuy, 1.005, 1, 2)})
	assert.Equal(t, 1.0, m.TotalProfitLoss)
	assert.Equal(t, 1.0, m.BestTrade)
}

func TestComputeMetrics_DoesNotMutateInput(t *testing.T) {
	trades := []domain.Trade{
		closed(domain.DirectionBuy, 1, 10, 12),
		closed(domain.DirectionSell, 1, 10, 12),
	}
	before := append([]domain.Trade(nil), trades...)

	first := ComputeMetrics(trades)
	second := ComputeMetrics(trades)

	assert.Equal(t, before, trades)
	assert.Equal(t, first, second)
}

func TestProfit_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dirs := []domain.Direction{domain.DirectionBuy, domain.DirectionSell, domain.DirectionShort, domain.DirectionCover, "other"}

	for i := 0; i < 500; i++ {
		dir := dirs[rng.Intn(len(dirs))]
		size := rng.Float64()*1000 + 0.01
		entry := rng.Float64()*500 + 0.01
		exit := rng.Float64()*500 + 0.01

		got := Profit(closed(dir, size, entry, exit))
		var want float64
		if dir == domain.DirectionBuy || dir == domain.DirectionCover {
			want = (exit - entry) * size
		} else {
			want = (entry - exit) * size
		}
		require.Equal(t, want, got, "direction %s", dir)
	}
}

func TestComputeMetrics_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []domain.Direction{domain.DirectionBuy, domain.DirectionSell, domain.DirectionShort, domain.DirectionCover}

	for run := 0; run < 50; run++ {
		n := rng.Intn(30)
		trades := make([]domain.Trade, 0, n)
		prevDrawdown := 0.0
		for i := 0; i < n; i++ {
			exit := 0.0
			if rng.Intn(4) > 0 {
				exit = rng.Float64()*200 + 1
			}
			trades = append(trades, closed(dirs[rng.Intn(len(dirs))], rng.Float64()*10+0.1, rng.Float64()*200+1, exit))

			m := ComputeMetrics(trades)
			require.GreaterOrEqual(t, m.MaxDrawdown, 0.0)
			require.GreaterOrEqual(t, m.MaxDrawdown, prevDrawdown, "max drawdown must not shrink as trades are appended")
			require.True(t, m.WinRate >= 0 && m.WinRate <= 100)
			require.False(t, math.IsNaN(m.ProfitFactor))
			if m.CompletedTrades == 0 {
				require.Equal(t, 0.0, m.WinRate)
			}
			if m.LosingTrades == 0 {
				require.Equal(t, 0.0, m.ProfitFactor)
			}
			prevDrawdown = m.MaxDrawdown
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	var trades []domain.Trade
	for i := 1; i <= 7; i++ {
		tr := closed(domain.DirectionBuy, 1, 10, 11)
		tr.ID = int64(i)
		trades = append(trades, tr)
	}

	d := BuildDashboard(trades)
	require.Len(t, d.RecentTrades, 5)
	for i, tr := range d.RecentTrades {
		assert.Equal(t, int64(i+1), tr.ID)
	}
	assert.Equal(t, 7, d.Metrics.TotalTrades)

	short := BuildDashboard(trades[:2])
	assert.Len(t, short.RecentTrades, 2)

	empty := BuildDashboard(nil)
	assert.NotNil(t, empty.RecentTrades)
	assert.Empty(t, empty.RecentTrades)
}
