package commission

// FixedRate charges a flat percentage of the order notional.
type FixedRate struct {
	rate float64
}

// NewFixedRate creates a fixed-rate model; rate 0.003 means 0.3% per order.
func NewFixedRate(rate float64) Model {
	return &FixedRate{rate: rate}
}

// Calculate returns rate times the order notional.
func (f *FixedRate) Calculate(price float64, quantity float64) float64 {
	return f.rate * price * quantity
}
