package indicator

import (
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// MACDResult holds the three MACD series, each aligned with the input.
type MACDResult struct {
	// Line is the fast EMA minus the slow EMA.
	Line []float64
	// Signal is the EMA of Line over the signal period.
	Signal []float64
	// Histogram is Line minus Signal.
	Histogram []float64
}

// MACD computes the moving average convergence divergence of one column.
// The fast period must be strictly less than the slow period.
func MACD(series types.PriceSeries, fastPeriod, slowPeriod, signalPeriod int, column types.Column) (MACDResult, error) {
	if fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidParameters,
			"macd periods must be positive, got fast=%d slow=%d signal=%d", fastPeriod, slowPeriod, signalPeriod)
	}

	if fastPeriod >= slowPeriod {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidParameters,
			"macd fast period %d must be less than slow period %d", fastPeriod, slowPeriod)
	}

	if err := series.Validate(); err != nil {
		return MACDResult{}, err
	}

	values, err := series.Values(column)
	if err != nil {
		return MACDResult{}, err
	}

	fast := exponentialMean(values, fastPeriod)
	slow := exponentialMean(values, slowPeriod)

	line := make([]float64, len(values))
	for i := range values {
		line[i] = fast[i] - slow[i]
	}

	signal := exponentialMean(line, signalPeriod)

	histogram := make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signal[i]
	}

	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: histogram,
	}, nil
}
