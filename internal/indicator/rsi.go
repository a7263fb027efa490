package indicator

import (
	"math"

	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// RSI computes the relative strength index over one column using rolling
// arithmetic means of gains and losses. The first period outputs are NaN
// (one delta is lost to differencing). When the window has losses but no
// gains RSI is 0; gains but no losses, 100; neither, undefined.
func RSI(series types.PriceSeries, period int, column types.Column) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameters, "rsi period must be positive, got %d", period)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	values, err := series.Values(column)
	if err != nil {
		return nil, err
	}

	n := len(values)
	out := make([]float64, n)

	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 1; i < n; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64

	for i := 0; i < n; i++ {
		gainSum += gains[i]
		lossSum += losses[i]

		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}

		// The window holds period deltas once i reaches period.
		if i < period {
			out[i] = math.NaN()
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = math.NaN()
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}

	return out, nil
}
