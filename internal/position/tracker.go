// Package position converts signal sequences into exposure sequences.
package position

import (
	"github.com/hsquant/stratbt/internal/types"
)

// Track scans the signal sequence left to right, starting flat, and applies
// hysteresis: a position only changes on an opposing signal.
//
// A buy while short flips directly to long (and a sell while long directly
// to short) with no intermediate flat state, and a signal matching the
// current side is a no-op rather than an addition to the position. Both
// behaviors are deliberate and load-bearing for trade counts.
func Track(signals []types.Signal) []types.Position {
	positions := make([]types.Position, len(signals))
	current := types.PositionFlat

	for i, signal := range signals {
		switch signal {
		case types.SignalBuy:
			if current != types.PositionLong {
				current = types.PositionLong
			}
		case types.SignalSell:
			if current != types.PositionShort {
				current = types.PositionShort
			}
		}

		positions[i] = current
	}

	return positions
}
