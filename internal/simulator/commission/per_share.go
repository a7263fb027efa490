package commission

// PerShare charges a fee per unit traded with a minimum per order.
type PerShare struct {
	perShare float64
	minimum  float64
}

// NewPerShare creates a per-share model.
func NewPerShare(perShare float64, minimum float64) Model {
	return &PerShare{perShare: perShare, minimum: minimum}
}

// Calculate returns perShare times quantity, floored at the minimum.
func (p *PerShare) Calculate(price float64, quantity float64) float64 {
	fee := p.perShare * quantity
	if fee < p.minimum {
		return p.minimum
	}

	return fee
}
