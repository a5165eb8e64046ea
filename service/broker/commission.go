package broker

import "math"

// Scheme computes commission, margin and sizing for executions.
type Scheme interface {
	// Commission is the cost of executing size units at price. Size may
	// be given signed; the result is always non-negative.
	Commission(size, price float64) float64
	// Margin is the cash retained per unit at the given price.
	Margin(price float64) float64
	// GetSize is the number of units the given cash can open at price.
	GetSize(cash, price float64) float64
	// OperationCost is the cash needed to open size units at price.
	OperationCost(size, price float64) float64
	// ProfitAndLoss is the gross result of moving size units from price
	// to newPrice.
	ProfitAndLoss(size, price, newPrice float64) float64
	// Mult is the contract multiplier.
	Mult() float64
}

// base carries the shared margin, multiplier and leverage math.
type base struct {
	margin   float64
	mult     float64
	leverage float64
}

func (b base) Margin(price float64) float64 {
	if b.margin > 0 {
		return b.margin
	}
	return price * b.mult
}

func (b base) GetSize(cash, price float64) float64 {
	if price <= 0 {
		return 0
	}
	if b.margin > 0 {
		return math.Floor(cash / b.margin)
	}
	return math.Floor(b.leverage * cash / (price * b.mult))
}

func (b base) OperationCost(size, price float64) float64 {
	size = math.Abs(size)
	if b.margin > 0 {
		return size * b.margin
	}
	return size * price * b.mult
}

func (b base) ProfitAndLoss(size, price, newPrice float64) float64 {
	return size * (newPrice - price) * b.mult
}

func (b base) Mult() float64 { return b.mult }

func newBase(margin, mult, leverage float64) base {
	if mult <= 0 {
		mult = 1.0
	}
	if leverage <= 0 {
		leverage = 1.0
	}
	return base{margin: margin, mult: mult, leverage: leverage}
}

// PercScheme charges a percentage of the traded value.
type PercScheme struct {
	base
	rate float64
}

// NewPercScheme builds a percentage scheme. When percabs is false the
// rate is given in percent (0.1 means 0.1%), otherwise as an absolute
// fraction (0.001 means 0.1%).
func NewPercScheme(rate float64, percabs bool) *PercScheme {
	if !percabs {
		rate /= 100.0
	}
	return &PercScheme{base: newBase(0, 1, 1), rate: rate}
}

func (p *PercScheme) Commission(size, price float64) float64 {
	return math.Abs(size) * price * p.rate
}

// FixedScheme charges a fixed amount per unit.
type FixedScheme struct {
	base
	perUnit float64
}

func NewFixedScheme(perUnit float64) *FixedScheme {
	return &FixedScheme{base: newBase(0, 1, 1), perUnit: perUnit}
}

func (f *FixedScheme) Commission(size, _ float64) float64 {
	return math.Abs(size) * f.perUnit
}

// FlatScheme charges a flat amount per execution regardless of size.
type FlatScheme struct {
	base
	perTrade float64
}

func NewFlatScheme(perTrade float64) *FlatScheme {
	return &FlatScheme{base: newBase(0, 1, 1), perTrade: perTrade}
}

func (f *FlatScheme) Commission(size, _ float64) float64 {
	if size == 0 {
		return 0
	}
	return f.perTrade
}

// TieredScheme charges per share with a minimum and an optional maximum,
// the interactive-brokers style.
type TieredScheme struct {
	base
	perShare float64
	min      float64
	max      float64 // 0 means no cap
}

func NewTieredScheme(perShare, min, max float64) *TieredScheme {
	return &TieredScheme{base: newBase(0, 1, 1), perShare: perShare, min: min, max: max}
}

func (t *TieredScheme) Commission(size, _ float64) float64 {
	c := math.Abs(size) * t.perShare
	if c < t.min {
		c = t.min
	}
	if t.max > 0 && c > t.max {
		c = t.max
	}
	return c
}

// FuturesScheme charges fixed per contract with margin-based sizing and
// a contract multiplier.
type FuturesScheme struct {
	base
	perContract float64
}

func NewFuturesScheme(perContract, margin, mult float64) *FuturesScheme {
	return &FuturesScheme{base: newBase(margin, mult, 1), perContract: perContract}
}

func (f *FuturesScheme) Commission(size, _ float64) float64 {
	return math.Abs(size) * f.perContract
}

// NewLeveragedScheme is a percentage scheme with sizing leverage, for
// margin trading of stock-like assets.
func NewLeveragedScheme(rate float64, percabs bool, leverage float64) *PercScheme {
	p := NewPercScheme(rate, percabs)
	p.base = newBase(0, 1, leverage)
	return p
}
