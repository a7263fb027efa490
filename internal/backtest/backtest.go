// Package backtest orchestrates a full run: signal generation, position
// tracking, the analytic capital curve, trade simulation, and performance
// evaluation.
package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/hsquant/stratbt/internal/analyzer"
	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/position"
	"github.com/hsquant/stratbt/internal/simulator"
	"github.com/hsquant/stratbt/internal/simulator/commission"
	"github.com/hsquant/stratbt/internal/strategy"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// Engine runs strategies over historical price series.
type Engine struct {
	config Config
	fees   commission.Model
	log    *logger.Logger
}

type Option func(*Engine)

// WithLogger replaces the engine's no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an engine from a validated configuration.
func New(config Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: config,
		fees:   commission.GetModel(config.CommissionScheme, config.CommissionRate),
		log:    logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine, nil
}

// Run executes one strategy over one series and returns the full result.
// The input series is clipped to the configured time window first.
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy, symbol string, series types.PriceSeries) (*types.BacktestResult, error) {
	if strat == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no strategy provided")
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	window := clipWindow(series, e.config.StartTime, e.config.EndTime)
	if len(window) == 0 {
		return nil, errors.New(errors.ErrCodeDataUnavailable, "no bars inside the configured time window")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.log.Debug("Running backtest",
		zap.String("strategy", strat.Name()),
		zap.String("symbol", symbol),
		zap.Int("bars", len(window)),
	)

	signals, err := strat.GenerateSignals(window)
	if err != nil {
		return nil, err
	}

	positions := position.Track(signals)

	rows := capitalCurve(window, positions, e.config.InitialCapital)
	applyCommission(rows, e.config.CommissionRate)

	sim := simulator.New(e.config.InitialCapital,
		simulator.WithCommission(e.fees),
		simulator.WithLogger(e.log),
	)

	simResult, err := sim.Simulate(window, signals, symbol, e.config.TradeUnit)
	if err != nil {
		return nil, err
	}

	report := analyzer.EvaluateWithRiskFree(rows, e.config.RiskFreeRate)

	e.log.Debug("Backtest finished",
		zap.String("strategy", strat.Name()),
		zap.Int("trades", len(simResult.Trades)),
		zap.Float64("total_return", report.TotalReturn),
	)

	return &types.BacktestResult{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		Strategy:      strat.Name(),
		Symbol:        symbol,
		Signals:       signals,
		Positions:     positions,
		Trades:        simResult.Trades,
		Report:        report,
		FinalCash:     simResult.FinalCash,
		FinalHoldings: simResult.FinalHoldings,
	}, nil
}

// Rows rebuilds the analytic capital table for one strategy over one series.
// It is the same table Run evaluates, exposed for inspection and export.
func (e *Engine) Rows(strat strategy.Strategy, series types.PriceSeries) ([]analyzer.Row, error) {
	window := clipWindow(series, e.config.StartTime, e.config.EndTime)

	signals, err := strat.GenerateSignals(window)
	if err != nil {
		return nil, err
	}

	rows := capitalCurve(window, position.Track(signals), e.config.InitialCapital)
	applyCommission(rows, e.config.CommissionRate)

	return rows, nil
}

func clipWindow(series types.PriceSeries, start, end optional.Option[time.Time]) types.PriceSeries {
	lo := 0
	hi := len(series)

	if start.IsSome() {
		for lo < hi && series[lo].Date.Before(start.Unwrap()) {
			lo++
		}
	}

	if end.IsSome() {
		for hi > lo && series[hi-1].Date.After(end.Unwrap()) {
			hi--
		}
	}

	return series[lo:hi]
}

// capitalCurve builds the analytic capital table. The strategy return of a
// bar is the bar's close-to-close return scaled by the position held at the
// previous bar, so a signal only earns from the bar after it fires.
func capitalCurve(series types.PriceSeries, positions []types.Position, initialCapital float64) []analyzer.Row {
	closes := series.Closes()
	rows := make([]analyzer.Row, len(closes))
	capital := initialCapital

	for i := range closes {
		row := analyzer.Row{
			Date:     series[i].Date,
			Position: positions[i],
		}

		if i > 0 && closes[i-1] != 0 {
			row.Return = closes[i]/closes[i-1] - 1
			row.StrategyReturn = float64(positions[i-1]) * row.Return
		}

		capital *= 1 + row.StrategyReturn
		row.Capital = capital
		rows[i] = row
	}

	return rows
}

// applyCommission charges transaction costs against the final capital point,
// one unit of rate per position change.
func applyCommission(rows []analyzer.Row, rate float64) {
	if rate <= 0 || len(rows) == 0 {
		return
	}

	changes := 0

	for i := 1; i < len(rows); i++ {
		if rows[i].Position != rows[i-1].Position {
			changes++
		}
	}

	rows[len(rows)-1].Capital *= 1 - float64(changes)*rate
}
