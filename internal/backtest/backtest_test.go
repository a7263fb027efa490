package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/hsquant/stratbt/internal/simulator/commission"
	"github.com/hsquant/stratbt/internal/strategy"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// scriptedStrategy replays a fixed signal sequence, padding with HOLD.
type scriptedStrategy struct {
	signals []types.Signal
}

func (s *scriptedStrategy) Name() string {
	return "scripted"
}

func (s *scriptedStrategy) GenerateSignals(series types.PriceSeries) ([]types.Signal, error) {
	signals := make([]types.Signal, len(series))

	for i := range signals {
		if i < len(s.signals) {
			signals[i] = s.signals[i]
		} else {
			signals[i] = types.SignalHold
		}
	}

	return signals, nil
}

type BacktestTestSuite struct {
	suite.Suite
}

func TestBacktestSuite(t *testing.T) {
	suite.Run(t, new(BacktestTestSuite))
}

func seriesFromCloses(closes []float64) types.PriceSeries {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, len(closes))

	for i, c := range closes {
		series[i] = types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return series
}

func (suite *BacktestTestSuite) TestParseConfigDefaults() {
	config, err := ParseConfig([]byte("initial_capital: 50000\n"))
	suite.Require().NoError(err)

	suite.Equal(50000.0, config.InitialCapital)
	suite.Equal(commission.SchemeZero, config.CommissionScheme)
	suite.Equal(1.0, config.TradeUnit)
	suite.Equal(0.02, config.RiskFreeRate)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *BacktestTestSuite) TestParseConfigOverrides() {
	content := `
initial_capital: 200000
commission_scheme: fixed_rate
commission_rate: 0.001
trade_unit: 10
risk_free_rate: 0.03
start_time: 2023-01-03T00:00:00Z
end_time: 2023-01-10T00:00:00Z
`

	config, err := ParseConfig([]byte(content))
	suite.Require().NoError(err)

	suite.Equal(200000.0, config.InitialCapital)
	suite.Equal(commission.SchemeFixedRate, config.CommissionScheme)
	suite.Equal(0.001, config.CommissionRate)
	suite.Equal(10.0, config.TradeUnit)
	suite.Equal(0.03, config.RiskFreeRate)
	suite.Require().True(config.StartTime.IsSome())
	suite.Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
}

func (suite *BacktestTestSuite) TestParseConfigInvalid() {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "negative capital",
			content: "initial_capital: -1\n",
		},
		{
			name:    "zero trade unit",
			content: "initial_capital: 1000\ntrade_unit: 0\n",
		},
		{
			name:    "unknown commission scheme",
			content: "initial_capital: 1000\ncommission_scheme: flat\n",
		},
		{
			name:    "end before start",
			content: "initial_capital: 1000\nstart_time: 2023-02-01T00:00:00Z\nend_time: 2023-01-01T00:00:00Z\n",
		},
		{
			name:    "not yaml",
			content: "initial_capital: [\n",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ParseConfig([]byte(tc.content))
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfig))
		})
	}
}

func (suite *BacktestTestSuite) TestNewRejectsInvalidConfig() {
	_, err := New(Config{InitialCapital: 0, TradeUnit: 1, CommissionScheme: commission.SchemeZero})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func (suite *BacktestTestSuite) TestRunAllHold() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	series := seriesFromCloses([]float64{100, 101, 102, 103})
	result, err := engine.Run(context.Background(), &scriptedStrategy{}, "AAPL", series)
	suite.Require().NoError(err)

	suite.Len(result.Signals, 4)
	suite.Len(result.Positions, 4)
	suite.Empty(result.Trades)
	suite.Zero(result.Report.TradeCount)
	suite.Zero(result.Report.TotalReturn)
	suite.Equal(100000.0, result.FinalCash)
	suite.Empty(result.FinalHoldings)
	suite.NotEmpty(result.ID)
}

func (suite *BacktestTestSuite) TestRunBuyAndHold() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	series := seriesFromCloses([]float64{100, 110, 121})
	strat := &scriptedStrategy{signals: []types.Signal{types.SignalBuy}}

	result, err := engine.Run(context.Background(), strat, "AAPL", series)
	suite.Require().NoError(err)

	// Long from the first bar, so the curve compounds both 10% moves.
	suite.InDelta(0.21, result.Report.TotalReturn, 1e-9)

	// The flip to long happens before the first observable row, so no
	// position change is counted.
	suite.Zero(result.Report.TradeCount)
	suite.Equal([]types.Position{types.PositionLong, types.PositionLong, types.PositionLong}, result.Positions)

	// One simulated buy of one unit at 100.
	suite.Require().Len(result.Trades, 1)
	suite.Equal(types.SideBuy, result.Trades[0].Side)
	suite.InDelta(99900.0, result.FinalCash, 1e-9)
	suite.Equal(map[string]float64{"AAPL": 1}, result.FinalHoldings)
}

func (suite *BacktestTestSuite) TestRunSignalEarnsFromNextBar() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	// Buy fires on the second bar; its own 10% move must not count.
	series := seriesFromCloses([]float64{100, 110, 121})
	strat := &scriptedStrategy{signals: []types.Signal{types.SignalHold, types.SignalBuy}}

	result, err := engine.Run(context.Background(), strat, "AAPL", series)
	suite.Require().NoError(err)
	suite.InDelta(0.10, result.Report.TotalReturn, 1e-9)
}

func (suite *BacktestTestSuite) TestCommissionChargedOnFinalCapital() {
	config := DefaultConfig()
	config.CommissionScheme = commission.SchemeFixedRate
	config.CommissionRate = 0.01

	engine, err := New(config)
	suite.Require().NoError(err)

	series := seriesFromCloses([]float64{100, 110, 121})
	strat := &scriptedStrategy{signals: []types.Signal{types.SignalHold, types.SignalBuy}}

	rows, err := engine.Rows(strat, series)
	suite.Require().NoError(err)

	// One position change, so the final point loses one unit of rate.
	suite.InDelta(100000*1.10*(1-0.01), rows[len(rows)-1].Capital, 1e-6)
}

func (suite *BacktestTestSuite) TestRunClipsToWindow() {
	config := DefaultConfig()
	config.StartTime = optional.Some(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC))
	config.EndTime = optional.Some(time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC))

	engine, err := New(config)
	suite.Require().NoError(err)

	series := seriesFromCloses([]float64{100, 101, 102, 103, 104})
	result, err := engine.Run(context.Background(), &scriptedStrategy{}, "AAPL", series)
	suite.Require().NoError(err)
	suite.Len(result.Signals, 2)
}

func (suite *BacktestTestSuite) TestRunEmptyWindow() {
	config := DefaultConfig()
	config.StartTime = optional.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	engine, err := New(config)
	suite.Require().NoError(err)

	series := seriesFromCloses([]float64{100, 101})
	_, err = engine.Run(context.Background(), &scriptedStrategy{}, "AAPL", series)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *BacktestTestSuite) TestRunCancelledContext() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series := seriesFromCloses([]float64{100, 101})
	_, err = engine.Run(ctx, &scriptedStrategy{}, "AAPL", series)
	suite.Require().Error(err)
	suite.ErrorIs(err, context.Canceled)
}

func (suite *BacktestTestSuite) TestRunNilStrategy() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	_, err = engine.Run(context.Background(), nil, "AAPL", seriesFromCloses([]float64{100}))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func (suite *BacktestTestSuite) TestRunMovingAverageCross() {
	engine, err := New(DefaultConfig())
	suite.Require().NoError(err)

	strat, err := strategy.NewMovingAverageCross(strategy.MovingAverageCrossConfig{
		ShortPeriod: 2,
		LongPeriod:  4,
		MAKind:      strategy.MAKindSMA,
	})
	suite.Require().NoError(err)

	// Decline then recovery produces at least one golden cross.
	closes := []float64{110, 108, 106, 104, 102, 100, 102, 104, 106, 108, 110, 112}
	series := seriesFromCloses(closes)

	result, err := engine.Run(context.Background(), strat, "AAPL", series)
	suite.Require().NoError(err)

	suite.Len(result.Signals, len(closes))
	suite.Len(result.Positions, len(closes))
	suite.NotEmpty(result.Trades)
	suite.Equal(strat.Name(), result.Strategy)
}
