package strategy

import (
	"fmt"
	"math"

	"github.com/quantworks/cerebro/service/broker"
)

// Sizer decides how many units an unsized Buy or Sell trades.
type Sizer interface {
	Size(b *broker.Broker, data string, cash, price float64) float64
}

// FixedSizer always trades the same stake.
type FixedSizer struct {
	Stake float64
}

func (s FixedSizer) Size(_ *broker.Broker, _ string, _, _ float64) float64 {
	return s.Stake
}

// PercentSizer trades a percentage of the available cash.
type PercentSizer struct {
	Percent float64
}

func (s PercentSizer) Size(_ *broker.Broker, _ string, cash, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Floor(cash * s.Percent / 100.0 / price)
}

// AllInSizer trades everything the commission scheme allows.
type AllInSizer struct{}

func (AllInSizer) Size(b *broker.Broker, data string, cash, price float64) float64 {
	return b.SizeFor(data, cash, price)
}

// NewSizer builds a sizer by name: "fixed", "percent" or "allin".
func NewSizer(name string, stake, percent float64) (Sizer, error) {
	switch name {
	case "", "fixed":
		if stake <= 0 {
			stake = 1
		}
		return FixedSizer{Stake: stake}, nil
	case "percent":
		if percent <= 0 || percent > 100 {
			return nil, fmt.Errorf("percent sizer needs 0 < percent <= 100, got %v", percent)
		}
		return PercentSizer{Percent: percent}, nil
	case "allin", "all-in":
		return AllInSizer{}, nil
	}
	return nil, fmt.Errorf("unknown sizer %q", name)
}
