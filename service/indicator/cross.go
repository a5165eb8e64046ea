package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// CrossOver detects one line crossing another: +1 when a crosses above b,
// -1 when a crosses below b, 0 otherwise. It reads its source lines at
// update time, so it must be updated after them.
type CrossOver struct {
	a, b  *series.Line
	prevA float64
	prevB float64
	has   bool
	line  *series.Line
}

func NewCrossOver(a, b *series.Line) *CrossOver {
	c := &CrossOver{a: a, b: b, line: series.NewLine("cross")}
	mp := a.MinPeriod()
	if b.MinPeriod() > mp {
		mp = b.MinPeriod()
	}
	c.line.SetMinPeriod(mp + 1)
	return c
}

func (c *CrossOver) Update(_ float64) {
	curA, curB := c.a.Get(0), c.b.Get(0)
	if math.IsNaN(curA) || math.IsNaN(curB) {
		c.line.Append(math.NaN())
		return
	}
	if !c.has {
		c.prevA, c.prevB = curA, curB
		c.has = true
		c.line.Append(0.0)
		return
	}

	out := 0.0
	if c.prevA <= c.prevB && curA > curB {
		out = 1.0
	} else if c.prevA >= c.prevB && curA < curB {
		out = -1.0
	}
	c.prevA, c.prevB = curA, curB
	c.line.Append(out)
}

func (c *CrossOver) Line() *series.Line { return c.line }

func (c *CrossOver) MinPeriod() int { return c.line.MinPeriod() }
