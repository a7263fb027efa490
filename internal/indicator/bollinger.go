package indicator

import (
	"math"

	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// BollingerResult holds the four band series, each aligned with the input.
type BollingerResult struct {
	// Middle is the simple moving average over the period.
	Middle []float64
	// Upper is Middle plus stdDev multiples of the rolling standard deviation.
	Upper []float64
	// Lower is Middle minus the same multiple.
	Lower []float64
	// Width is (Upper-Lower)/Middle, defined as 0 when Middle is 0.
	Width []float64
}

// Bollinger computes Bollinger Bands over one column. The rolling standard
// deviation uses the sample convention (n-1 denominator), matching the
// middle band's window.
func Bollinger(series types.PriceSeries, period int, stdDev float64, column types.Column) (BollingerResult, error) {
	if period <= 0 {
		return BollingerResult{}, errors.Newf(errors.ErrCodeInvalidParameters, "bollinger period must be positive, got %d", period)
	}

	if err := series.Validate(); err != nil {
		return BollingerResult{}, err
	}

	values, err := series.Values(column)
	if err != nil {
		return BollingerResult{}, err
	}

	middle := rollingMean(values, period)
	std := rollingStd(values, period)

	n := len(values)
	upper := make([]float64, n)
	lower := make([]float64, n)
	width := make([]float64, n)

	for i := 0; i < n; i++ {
		upper[i] = middle[i] + stdDev*std[i]
		lower[i] = middle[i] - stdDev*std[i]

		switch {
		case math.IsNaN(middle[i]):
			width[i] = math.NaN()
		case middle[i] == 0:
			width[i] = 0
		default:
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}

	return BollingerResult{
		Middle: middle,
		Upper:  upper,
		Lower:  lower,
		Width:  width,
	}, nil
}

// rollingStd computes the sample standard deviation over a trailing window.
// A window of 1 has no sample variance and yields 0.
func rollingStd(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	var sum float64

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i < period-1 {
			out[i] = math.NaN()
			continue
		}

		if period == 1 {
			out[i] = 0
			continue
		}

		mean := sum / float64(period)

		var sq float64

		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}

		out[i] = math.Sqrt(sq / float64(period-1))
	}

	return out
}
