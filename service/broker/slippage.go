package broker

// Slippage worsens execution prices by a percentage of price or a fixed
// amount. Percentage takes precedence when both are set.
type Slippage struct {
	Perc  float64
	Fixed float64
	// SlipLimit applies slippage to limit executions too.
	SlipLimit bool
}

// Apply worsens price for the given side. A buy pays more, a sell
// receives less.
func (s Slippage) Apply(price float64, side Side) float64 {
	var amount float64
	switch {
	case s.Perc > 0:
		amount = price * s.Perc
	case s.Fixed > 0:
		amount = s.Fixed
	default:
		return price
	}
	if side == BuySide {
		return price + amount
	}
	return price - amount
}
