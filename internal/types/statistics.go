package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceReport summarizes realized strategy performance over one
// backtest run. Every field is always defined; degenerate inputs (empty
// table, zero trades, zero variance) resolve to zero rather than NaN/Inf.
type PerformanceReport struct {
	// TotalReturn is final capital over initial capital minus one.
	TotalReturn float64 `yaml:"total_return"`
	// AnnualReturn compounds the total return over a 252 trading-day year.
	AnnualReturn float64 `yaml:"annual_return"`
	// MaxDrawdown is the largest decline of capital from its running peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// TradeCount is the number of position changes over the run.
	TradeCount int `yaml:"trade_count"`
	// WinRate is the fraction of position changes with positive strategy return.
	WinRate float64 `yaml:"win_rate"`
	// SharpeRatio is the annual return in excess of the risk-free rate,
	// divided by annualized volatility.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// Volatility is the annualized standard deviation of strategy returns.
	Volatility float64 `yaml:"volatility"`
}

// BacktestResult is the full outcome of one engine run.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Strategy is the human-readable name of the strategy.
	Strategy string `yaml:"strategy"`
	// Symbol of the traded instrument.
	Symbol string `yaml:"symbol"`
	// Signals holds one signal per input bar.
	Signals []Signal `yaml:"signals"`
	// Positions holds one position per input bar.
	Positions []Position `yaml:"positions"`
	// Trades is the ordered log of executed simulated orders.
	Trades []TradeRecord `yaml:"trades"`
	// Report is the realized performance of the analytic capital curve.
	Report PerformanceReport `yaml:"report"`
	// FinalCash is the simulator's cash balance at the end of the run.
	FinalCash float64 `yaml:"final_cash"`
	// FinalHoldings maps symbol to quantity still held at the end of the run.
	FinalHoldings map[string]float64 `yaml:"final_holdings"`
}

// WriteResult writes a backtest result to a YAML file.
func WriteResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
