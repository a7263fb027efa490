package types

// Signal is a per-date trading instruction derived from indicator values.
// Signals are pure functions of the price series and strategy parameters.
type Signal string

const (
	// SignalBuy tells the simulator to open or extend a long exposure.
	SignalBuy Signal = "BUY"
	// SignalHold tells the simulator to do nothing on this date.
	SignalHold Signal = "HOLD"
	// SignalSell tells the simulator to reduce or reverse exposure.
	SignalSell Signal = "SELL"
)

// Position is the per-date exposure derived from the signal sequence.
// The numeric values are chosen so that strategy returns are
// position * underlying returns.
type Position int

const (
	PositionShort Position = -1
	PositionFlat  Position = 0
	PositionLong  Position = 1
)

// String implements fmt.Stringer.
func (p Position) String() string {
	switch p {
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}
