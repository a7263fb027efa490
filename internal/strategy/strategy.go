// Package strategy turns price history into per-date trading signals.
package strategy

import (
	"github.com/hsquant/stratbt/internal/indicator"
	"github.com/hsquant/stratbt/internal/types"
)

// Strategy generates one signal per input bar. Implementations are pure:
// the same series and configuration always yield the same signals, and no
// state carries between calls.
type Strategy interface {
	// Name returns the human-readable strategy name.
	Name() string
	// GenerateSignals returns a signal sequence aligned with the series.
	GenerateSignals(series types.PriceSeries) ([]types.Signal, error)
}

// signalsFromCrossovers maps golden crosses to buys and death crosses to
// sells on their event dates; every other date holds. Warm-up dates can
// never carry an event, so they always hold.
func signalsFromCrossovers(length int, crossovers []indicator.Crossover) []types.Signal {
	signals := make([]types.Signal, length)
	for i := range signals {
		signals[i] = types.SignalHold
	}

	for _, c := range crossovers {
		switch c.Type {
		case indicator.GoldenCross:
			signals[c.Index] = types.SignalBuy
		case indicator.DeathCross:
			signals[c.Index] = types.SignalSell
		}
	}

	return signals
}
