package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// SMA is the simple moving average.
type SMA struct {
	period int
	win    *window
	line   *series.Line
}

func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	s := &SMA{period: period, win: newWindow(period), line: series.NewLine("sma")}
	s.line.SetMinPeriod(period)
	return s
}

func (s *SMA) Update(v float64) {
	if s.win.push(v) {
		s.line.Append(s.win.mean())
		return
	}
	s.line.Append(math.NaN())
}

func (s *SMA) Line() *series.Line { return s.line }
func (s *SMA) MinPeriod() int     { return s.period }

// WMA is the linearly weighted moving average, newest value heaviest.
type WMA struct {
	period int
	win    *window
	line   *series.Line
}

func NewWMA(period int) *WMA {
	if period < 1 {
		period = 1
	}
	w := &WMA{period: period, win: newWindow(period), line: series.NewLine("wma")}
	w.line.SetMinPeriod(period)
	return w
}

func (w *WMA) Update(v float64) {
	if !w.win.push(v) {
		w.line.Append(math.NaN())
		return
	}
	var num float64
	for i, val := range w.win.vals {
		num += float64(i+1) * val
	}
	den := float64(w.period*(w.period+1)) / 2
	w.line.Append(num / den)
}

func (w *WMA) Line() *series.Line { return w.line }
func (w *WMA) MinPeriod() int     { return w.period }

// EMA is the exponential moving average, seeded with an SMA over the
// first period values.
type EMA struct {
	period int
	alpha  float64
	win    *window
	seeded bool
	prev   float64
	line   *series.Line
}

func NewEMA(period int) *EMA {
	if period < 1 {
		period = 1
	}
	e := &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
		win:    newWindow(period),
		line:   series.NewLine("ema"),
	}
	e.line.SetMinPeriod(period)
	return e
}

func (e *EMA) Update(v float64) {
	if !e.seeded {
		if e.win.push(v) {
			e.prev = e.win.mean()
			e.seeded = true
			e.line.Append(e.prev)
			return
		}
		e.line.Append(math.NaN())
		return
	}
	e.prev = e.prev + e.alpha*(v-e.prev)
	e.line.Append(e.prev)
}

func (e *EMA) Line() *series.Line { return e.line }
func (e *EMA) MinPeriod() int     { return e.period }

// DEMA is the double exponential moving average, 2*EMA - EMA(EMA).
type DEMA struct {
	period int
	ema1   *EMA
	ema2   *EMA
	line   *series.Line
}

func NewDEMA(period int) *DEMA {
	d := &DEMA{period: period, ema1: NewEMA(period), ema2: NewEMA(period), line: series.NewLine("dema")}
	d.line.SetMinPeriod(2*period - 1)
	return d
}

func (d *DEMA) Update(v float64) {
	d.ema1.Update(v)
	inner := d.ema1.Line().Get(0)
	if math.IsNaN(inner) {
		d.line.Append(math.NaN())
		return
	}
	d.ema2.Update(inner)
	outer := d.ema2.Line().Get(0)
	if math.IsNaN(outer) {
		d.line.Append(math.NaN())
		return
	}
	d.line.Append(2*inner - outer)
}

func (d *DEMA) Line() *series.Line { return d.line }
func (d *DEMA) MinPeriod() int     { return 2*d.period - 1 }
