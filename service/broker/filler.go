package broker

import "math"

// Filler limits how much of an order the bar's liquidity can absorb.
type Filler interface {
	Fill(order *Order, price, volume float64) float64
}

// AllFiller fills the whole remaining size regardless of volume.
type AllFiller struct{}

func (AllFiller) Fill(order *Order, _, _ float64) float64 {
	return order.Remaining()
}

// BarVolumeFiller fills up to a percentage of the bar's volume.
type BarVolumeFiller struct {
	Percent float64
}

func NewBarVolumeFiller(percent float64) BarVolumeFiller {
	if percent <= 0 || percent > 100 {
		percent = 100
	}
	return BarVolumeFiller{Percent: percent}
}

func (f BarVolumeFiller) Fill(order *Order, _, volume float64) float64 {
	limit := math.Floor(volume * f.Percent / 100.0)
	return math.Min(order.Remaining(), limit)
}

// FixedFiller fills up to a fixed size per bar.
type FixedFiller struct {
	Max float64
}

func (f FixedFiller) Fill(order *Order, _, _ float64) float64 {
	return math.Min(order.Remaining(), f.Max)
}
