// Package commission models per-order trading fees.
package commission

// Model calculates the fee in cash units for one order.
type Model interface {
	// Calculate returns the fee for an order of quantity units at price.
	Calculate(price float64, quantity float64) float64
}

type Scheme string

const (
	SchemeZero      Scheme = "zero"
	SchemeFixedRate Scheme = "fixed_rate"
	SchemePerShare  Scheme = "per_share"
)

// GetModel returns the fee model for a scheme. Unknown schemes fall back
// to zero commission.
func GetModel(scheme Scheme, rate float64) Model {
	switch scheme {
	case SchemeFixedRate:
		return NewFixedRate(rate)
	case SchemePerShare:
		return NewPerShare(rate, 1.0)
	default:
		return NewZero()
	}
}
