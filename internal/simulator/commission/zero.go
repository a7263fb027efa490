package commission

// Zero implements Model with no fees.
type Zero struct{}

// NewZero creates a zero commission model.
func NewZero() Model {
	return &Zero{}
}

// Calculate returns 0 for any order.
func (z *Zero) Calculate(price float64, quantity float64) float64 {
	return 0.0
}
