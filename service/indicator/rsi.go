package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// RSI is the relative strength index with Wilder smoothing. The output is
// 100 when the average loss is zero.
type RSI struct {
	period   int
	prev     float64
	hasPrev  bool
	changes  int
	avgGain  float64
	avgLoss  float64
	line     *series.Line
}

func NewRSI(period int) *RSI {
	if period < 1 {
		period = 1
	}
	r := &RSI{period: period, line: series.NewLine("rsi")}
	r.line.SetMinPeriod(period + 1)
	return r
}

func (r *RSI) Update(v float64) {
	if !r.hasPrev {
		r.prev = v
		r.hasPrev = true
		r.line.Append(math.NaN())
		return
	}

	change := v - r.prev
	r.prev = v
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	r.changes++
	if r.changes < r.period {
		r.avgGain += gain
		r.avgLoss += loss
		r.line.Append(math.NaN())
		return
	}
	if r.changes == r.period {
		r.avgGain = (r.avgGain + gain) / float64(r.period)
		r.avgLoss = (r.avgLoss + loss) / float64(r.period)
	} else {
		n := float64(r.period)
		r.avgGain = (r.avgGain*(n-1) + gain) / n
		r.avgLoss = (r.avgLoss*(n-1) + loss) / n
	}

	if r.avgLoss == 0 {
		r.line.Append(100.0)
		return
	}
	rs := r.avgGain / r.avgLoss
	r.line.Append(100.0 - 100.0/(1.0+rs))
}

func (r *RSI) Line() *series.Line { return r.line }
func (r *RSI) MinPeriod() int     { return r.period + 1 }

// StochRSI is the stochastic oscillator applied to the RSI line,
// normalized to 0..1.
type StochRSI struct {
	period int
	rsi    *RSI
	win    *window
	line   *series.Line
}

func NewStochRSI(period int) *StochRSI {
	if period < 1 {
		period = 1
	}
	s := &StochRSI{period: period, rsi: NewRSI(period), win: newWindow(period), line: series.NewLine("stochrsi")}
	s.line.SetMinPeriod(2 * period)
	return s
}

func (s *StochRSI) Update(v float64) {
	s.rsi.Update(v)
	cur := s.rsi.Line().Get(0)
	if math.IsNaN(cur) {
		s.line.Append(math.NaN())
		return
	}
	if !s.win.push(cur) {
		s.line.Append(math.NaN())
		return
	}
	lo, hi := s.win.min(), s.win.max()
	if hi == lo {
		s.line.Append(0.0)
		return
	}
	s.line.Append((cur - lo) / (hi - lo))
}

func (s *StochRSI) Line() *series.Line { return s.line }
func (s *StochRSI) MinPeriod() int     { return 2 * s.period }
