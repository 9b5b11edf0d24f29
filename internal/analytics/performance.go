package analytics

import (
	"strconv"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// SharpeRatioPlaceholder is reported in place of a computed Sharpe ratio.
// It is not derived from trade returns.
const SharpeRatioPlaceholder = 1.5

// RecentTradesLimit is the number of trades shown on the dashboard.
const RecentTradesLimit = 5

// PerformanceSummary holds the dashboard statistics for a list of trades.
// Monetary and ratio fields are rounded to 2 decimal places.
type PerformanceSummary struct {
	TotalTrades     int     `json:"totalTrades" yaml:"totalTrades"`
	CompletedTrades int     `json:"completedTrades" yaml:"completedTrades"`
	TotalProfitLoss float64 `json:"totalProfitLoss" yaml:"totalProfitLoss"`
	WinRate         float64 `json:"winRate" yaml:"winRate"` // Percentage, 0-100
	WinningTrades   int     `json:"winningTrades" yaml:"winningTrades"`
	LosingTrades    int     `json:"losingTrades" yaml:"losingTrades"`
	AvgWin          float64 `json:"avgWin" yaml:"avgWin"`
	AvgLoss         float64 `json:"avgLoss" yaml:"avgLoss"` // Magnitude, never negative
	ProfitFactor    float64 `json:"profitFactor" yaml:"profitFactor"`
	MaxDrawdown     float64 `json:"maxDrawdown" yaml:"maxDrawdown"`
	SharpeRatio     float64 `json:"sharpeRatio" yaml:"sharpeRatio"`
	Expectancy      float64 `json:"expectancy" yaml:"expectancy"`
	BestTrade       float64 `json:"bestTrade" yaml:"bestTrade"`   // Floors at 0
	WorstTrade      float64 `json:"worstTrade" yaml:"worstTrade"` // Caps at 0
}

// Profit returns the signed P/L of a completed trade.
// buy and cover gain when price rises; every other direction gains when it falls.
func Profit(t domain.Trade) float64 {
	if t.Direction.ProfitsOnRise() {
		return (t.ExitPrice - t.EntryPrice) * t.Size
	}
	return (t.EntryPrice - t.ExitPrice) * t.Size
}

// foldState is the accumulator threaded through the left fold over completed trades.
type foldState struct {
	totalProfitLoss float64
	winningTrades   int
	losingTrades    int
	totalWins       float64
	totalLosses     float64
	bestTrade       float64
	worstTrade      float64
	runningTotal    float64
	peak            float64
	maxDrawdown     float64
}

// step folds one trade's profit into s and returns the new state.
// A profit of exactly 0 counts as a loss.
func (s foldState) step(profit float64) foldState {
	s.totalProfitLoss += profit
	if profit > 0 {
		s.winningTrades++
		s.totalWins += profit
		if profit > s.bestTrade {
			s.bestTrade = profit
		}
	} else {
		s.losingTrades++
		s.totalLosses += -profit
		if profit < s.worstTrade {
			s.worstTrade = profit
		}
	}

	s.runningTotal += profit
	if s.runningTotal > s.peak {
		s.peak = s.runningTotal
	}
	if dd := s.peak - s.runningTotal; dd > s.maxDrawdown {
		s.maxDrawdown = dd
	}
	return s
}

// ComputeMetrics summarizes trades. Only completed trades (exit price > 0) are
// folded, in the order supplied; drawdown depends on that order. The input is not modified.
func ComputeMetrics(trades []domain.Trade) PerformanceSummary {
	var s foldState
	completed := 0
	for _, t := range trades {
		if !t.IsCompleted() {
			continue
		}
		completed++
		s = s.step(Profit(t))
	}

	closed := s.winningTrades + s.losingTrades
	var winRate, avgWin, avgLoss, profitFactor, expectancy float64
	if closed > 0 {
		winRate = float64(s.winningTrades) / float64(closed) * 100
		expectancy = s.totalProfitLoss / float64(closed)
	}
	if s.winningTrades > 0 {
		avgWin = s.totalWins / float64(s.winningTrades)
	}
	if s.losingTrades > 0 {
		avgLoss = s.totalLosses / float64(s.losingTrades)
	}
	if avgLoss > 0 {
		profitFactor = s.totalWins / s.totalLosses
	}

	return PerformanceSummary{
		TotalTrades:     len(trades),
		CompletedTrades: completed,
		TotalProfitLoss: round2(s.totalProfitLoss),
		WinRate:         round2(winRate),
		WinningTrades:   s.winningTrades,
		LosingTrades:    s.losingTrades,
		AvgWin:          round2(avgWin),
		AvgLoss:         round2(avgLoss),
		ProfitFactor:    round2(profitFactor),
		MaxDrawdown:     round2(s.maxDrawdown),
		SharpeRatio:     round2(SharpeRatioPlaceholder),
		Expectancy:      round2(expectancy),
		BestTrade:       round2(s.bestTrade),
		WorstTrade:      round2(s.worstTrade),
	}
}

// exactDigits covers every fractional digit a float64 can carry.
const exactDigits = 1074

// round2 rounds the exact binary value of v half away from zero at 2 decimal
// places, so 1.005 (stored just below 1.005) becomes 1.00.
func round2(v float64) float64 {
	exact := decimal.RequireFromString(strconv.FormatFloat(v, 'f', exactDigits, 64))
	return exact.Round(2).InexactFloat64()
}

// Dashboard is the presentation payload: summary plus the first trades as supplied.
type Dashboard struct {
	Metrics      PerformanceSummary `json:"metrics" yaml:"metrics"`
	RecentTrades []domain.Trade     `json:"recentTrades" yaml:"recentTrades"`
}

// BuildDashboard computes metrics over trades and keeps the first
// RecentTradesLimit of them. trades is expected newest-first, as storage returns it.
func BuildDashboard(trades []domain.Trade) Dashboard {
	n := min(len(trades), RecentTradesLimit)
	recent := make([]domain.Trade, n)
	copy(recent, trades[:n])
	return Dashboard{
		Metrics:      ComputeMetrics(trades),
		RecentTrades: recent,
	}
}
