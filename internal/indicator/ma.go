// Package indicator computes technical indicator series over price history.
//
// Every function returns a slice aligned one-to-one with the input series.
// Leading values inside an indicator's warm-up window are math.NaN();
// callers treat NaN as "undefined" and must not let it escape into reports.
package indicator

import (
	"math"

	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// SMA computes the simple moving average of one column over a trailing
// window. The first period-1 outputs are NaN.
func SMA(series types.PriceSeries, period int, column types.Column) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameters, "sma period must be positive, got %d", period)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	values, err := series.Values(column)
	if err != nil {
		return nil, err
	}

	return rollingMean(values, period), nil
}

// EMA computes the exponential moving average of one column with smoothing
// factor alpha = 2/(period+1). The first value seeds the average, so there
// is no warm-up gap.
func EMA(series types.PriceSeries, period int, column types.Column) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameters, "ema period must be positive, got %d", period)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	values, err := series.Values(column)
	if err != nil {
		return nil, err
	}

	return exponentialMean(values, period), nil
}

// rollingMean maintains a running window sum; one add and one subtract per
// step regardless of the window size.
func rollingMean(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	var sum float64

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}

// exponentialMean is the recursive scan EMA_t = alpha*v_t + (1-alpha)*EMA_{t-1},
// seeded with the first value.
func exponentialMean(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}
