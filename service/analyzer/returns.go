package analyzer

import (
	"math"
	"time"
)

// Returns computes total and per-bar portfolio return statistics.
type Returns struct {
	nop
	start   float64
	last    float64
	prev    float64
	hasPrev bool
	returns []float64
}

func NewReturns() *Returns { return &Returns{} }

func (a *Returns) Name() string { return "returns" }

func (a *Returns) Start(startCash float64) {
	a.start = startCash
	a.last = startCash
}

func (a *Returns) NextBar(_ time.Time, _, value float64) {
	if a.hasPrev && a.prev != 0 {
		a.returns = append(a.returns, value/a.prev-1.0)
	}
	a.prev = value
	a.hasPrev = true
	a.last = value
}

func (a *Returns) Analysis() map[string]float64 {
	out := map[string]float64{
		"total_return": 0,
		"avg_return":   0,
		"return_std":   0,
	}
	if a.start != 0 {
		out["total_return"] = (a.last/a.start - 1.0) * 100.0
	}
	if len(a.returns) == 0 {
		return out
	}
	mean, std := meanStd(a.returns)
	out["avg_return"] = mean
	out["return_std"] = std
	return out
}

// meanStd returns the mean and population standard deviation.
func meanStd(vals []float64) (float64, float64) {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(vals)))
}
