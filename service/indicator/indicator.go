// Package indicator implements streaming technical indicators. Each
// indicator consumes one input value per bar and appends its output to a
// line, pushing NaN until its warm-up period is satisfied.
package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// Indicator is updated once per bar, before the strategy sees the bar.
type Indicator interface {
	// Update consumes the bar's input value (normally the close).
	Update(v float64)
	// Line is the primary output line.
	Line() *series.Line
	// MinPeriod is the number of bars needed before the output is valid.
	MinPeriod() int
}

// window is a fixed-size rolling buffer with a running sum.
type window struct {
	vals []float64
	size int
	sum  float64
}

func newWindow(size int) *window {
	return &window{size: size}
}

// push adds v and reports whether the window is full.
func (w *window) push(v float64) bool {
	w.vals = append(w.vals, v)
	w.sum += v
	if len(w.vals) > w.size {
		w.sum -= w.vals[0]
		copy(w.vals, w.vals[1:])
		w.vals = w.vals[:w.size]
	}
	return len(w.vals) == w.size
}

func (w *window) mean() float64 {
	if len(w.vals) == 0 {
		return math.NaN()
	}
	return w.sum / float64(len(w.vals))
}

func (w *window) min() float64 {
	m := math.Inf(1)
	for _, v := range w.vals {
		if v < m {
			m = v
		}
	}
	return m
}

func (w *window) max() float64 {
	m := math.Inf(-1)
	for _, v := range w.vals {
		if v > m {
			m = v
		}
	}
	return m
}

// stddev is the population standard deviation of the window.
func (w *window) stddev() float64 {
	if len(w.vals) == 0 {
		return math.NaN()
	}
	mean := w.mean()
	var sq float64
	for _, v := range w.vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(w.vals)))
}
