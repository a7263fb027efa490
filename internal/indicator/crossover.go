package indicator

import (
	"math"
	"time"

	"github.com/hsquant/stratbt/pkg/errors"
)

// CrossoverType classifies the direction of a crossover event.
type CrossoverType string

const (
	// GoldenCross means the fast series crossed above the slow series.
	GoldenCross CrossoverType = "golden_cross"
	// DeathCross means the fast series crossed below the slow series.
	DeathCross CrossoverType = "death_cross"
)

// Crossover is one detected crossing between two aligned series.
type Crossover struct {
	Index int
	Date  time.Time
	Type  CrossoverType
	Fast  float64
	Slow  float64
}

// DetectCrossovers scans two aligned series in a single forward pass and
// returns crossings in chronological order. A crossover happens at t when
// the sign of fast-slow flips between t-1 and t; exact equality on either
// side is not a crossover, and undefined (NaN) values never participate.
func DetectCrossovers(dates []time.Time, fast, slow []float64) ([]Crossover, error) {
	if len(fast) != len(slow) || len(fast) != len(dates) {
		return nil, errors.Newf(errors.ErrCodeInvalidInput,
			"crossover series must be aligned: dates=%d fast=%d slow=%d", len(dates), len(fast), len(slow))
	}

	var crossovers []Crossover

	for t := 1; t < len(fast); t++ {
		prev := fast[t-1] - slow[t-1]
		curr := fast[t] - slow[t]

		if math.IsNaN(prev) || math.IsNaN(curr) {
			continue
		}

		switch {
		case prev < 0 && curr > 0:
			crossovers = append(crossovers, Crossover{
				Index: t,
				Date:  dates[t],
				Type:  GoldenCross,
				Fast:  fast[t],
				Slow:  slow[t],
			})
		case prev > 0 && curr < 0:
			crossovers = append(crossovers, Crossover{
				Index: t,
				Date:  dates[t],
				Type:  DeathCross,
				Fast:  fast[t],
				Slow:  slow[t],
			})
		}
	}

	return crossovers, nil
}
