package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// StdDev is the rolling population standard deviation.
type StdDev struct {
	period int
	win    *window
	line   *series.Line
}

func NewStdDev(period int) *StdDev {
	if period < 1 {
		period = 1
	}
	s := &StdDev{period: period, win: newWindow(period), line: series.NewLine("stddev")}
	s.line.SetMinPeriod(period)
	return s
}

func (s *StdDev) Update(v float64) {
	if s.win.push(v) {
		s.line.Append(s.win.stddev())
		return
	}
	s.line.Append(math.NaN())
}

func (s *StdDev) Line() *series.Line { return s.line }
func (s *StdDev) MinPeriod() int     { return s.period }

// Bollinger computes the middle SMA band plus top and bottom bands at
// devFactor standard deviations.
type Bollinger struct {
	period    int
	devFactor float64
	win       *window
	mid       *series.Line
	top       *series.Line
	bot       *series.Line
}

func NewBollinger(period int, devFactor float64) *Bollinger {
	if period < 1 {
		period = 1
	}
	if devFactor <= 0 {
		devFactor = 2.0
	}
	b := &Bollinger{
		period:    period,
		devFactor: devFactor,
		win:       newWindow(period),
		mid:       series.NewLine("mid"),
		top:       series.NewLine("top"),
		bot:       series.NewLine("bot"),
	}
	b.mid.SetMinPeriod(period)
	b.top.SetMinPeriod(period)
	b.bot.SetMinPeriod(period)
	return b
}

func (b *Bollinger) Update(v float64) {
	if !b.win.push(v) {
		b.mid.Append(math.NaN())
		b.top.Append(math.NaN())
		b.bot.Append(math.NaN())
		return
	}
	mean := b.win.mean()
	dev := b.devFactor * b.win.stddev()
	b.mid.Append(mean)
	b.top.Append(mean + dev)
	b.bot.Append(mean - dev)
}

// Line returns the middle band.
func (b *Bollinger) Line() *series.Line { return b.mid }
func (b *Bollinger) Top() *series.Line  { return b.top }
func (b *Bollinger) Bot() *series.Line  { return b.bot }
func (b *Bollinger) MinPeriod() int     { return b.period }
