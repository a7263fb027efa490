// Package analyzer computes realized performance statistics from a
// backtest's capital curve.
package analyzer

import (
	"math"
	"time"

	"github.com/hsquant/stratbt/internal/types"
)

const (
	// DefaultRiskFreeRate is the annual risk-free rate used for Sharpe.
	DefaultRiskFreeRate = 0.02
	// TradingDaysPerYear annualizes daily statistics.
	TradingDaysPerYear = 252
)

// Row is one date of the backtest table.
type Row struct {
	Date time.Time
	// Position is the exposure held on this date.
	Position types.Position
	// Return is the period return of the underlying.
	Return float64
	// StrategyReturn is the return captured by the strategy (position
	// times underlying return).
	StrategyReturn float64
	// Capital is the portfolio value on this date.
	Capital float64
}

// Evaluate computes a performance report with the default risk-free rate.
func Evaluate(rows []Row) types.PerformanceReport {
	return EvaluateWithRiskFree(rows, DefaultRiskFreeRate)
}

// EvaluateWithRiskFree computes a performance report. Degenerate inputs
// (empty table, single row, zero trades, zero variance, zero capital)
// yield zero values, never NaN or Inf.
func EvaluateWithRiskFree(rows []Row, riskFreeRate float64) types.PerformanceReport {
	report := types.PerformanceReport{}
	if len(rows) == 0 {
		return report
	}

	if first := rows[0].Capital; first != 0 {
		report.TotalReturn = rows[len(rows)-1].Capital/first - 1
	}

	if len(rows) > 1 {
		days := int(rows[len(rows)-1].Date.Sub(rows[0].Date).Hours() / 24)
		if days < 1 {
			days = 1
		}

		report.AnnualReturn = math.Pow(1+report.TotalReturn, TradingDaysPerYear/float64(days)) - 1
	}

	report.MaxDrawdown = maxDrawdown(rows)
	report.TradeCount, report.WinRate = tradeStats(rows)

	if len(rows) > 1 {
		report.Volatility = stdDev(strategyReturns(rows)) * math.Sqrt(TradingDaysPerYear)
	}

	if report.Volatility > 0 {
		report.SharpeRatio = (report.AnnualReturn - riskFreeRate) / report.Volatility
	}

	return sanitize(report)
}

// maxDrawdown is the largest fractional decline of capital from its
// running peak.
func maxDrawdown(rows []Row) float64 {
	var peak, worst float64

	for _, row := range rows {
		if row.Capital > peak {
			peak = row.Capital
		}

		if peak > 0 {
			if dd := (peak - row.Capital) / peak; dd > worst {
				worst = dd
			}
		}
	}

	return worst
}

// tradeStats counts position changes and the fraction of them with a
// positive strategy return on the change date.
func tradeStats(rows []Row) (int, float64) {
	trades, wins := 0, 0

	for i := 1; i < len(rows); i++ {
		if rows[i].Position == rows[i-1].Position {
			continue
		}

		trades++

		if rows[i].StrategyReturn > 0 {
			wins++
		}
	}

	if trades == 0 {
		return 0, 0
	}

	return trades, float64(wins) / float64(trades)
}

func strategyReturns(rows []Row) []float64 {
	returns := make([]float64, len(rows))
	for i, row := range rows {
		returns[i] = row.StrategyReturn
	}

	return returns
}

// stdDev is the sample standard deviation, 0 for fewer than 2 values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))

	var sq float64

	for _, v := range values {
		d := v - mean
		sq += d * d
	}

	return math.Sqrt(sq / float64(len(values)-1))
}

// sanitize replaces any NaN or Inf field with 0 so degenerate runs never
// leak non-finite values to callers.
func sanitize(report types.PerformanceReport) types.PerformanceReport {
	report.TotalReturn = finiteOrZero(report.TotalReturn)
	report.AnnualReturn = finiteOrZero(report.AnnualReturn)
	report.MaxDrawdown = finiteOrZero(report.MaxDrawdown)
	report.WinRate = finiteOrZero(report.WinRate)
	report.SharpeRatio = finiteOrZero(report.SharpeRatio)
	report.Volatility = finiteOrZero(report.Volatility)

	return report
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
