// Package observer records per-bar portfolio lines (cash, value,
// drawdown) for later export.
package observer

import (
	"github.com/quantworks/cerebro/service/series"
)

// Observer samples the portfolio once per bar.
type Observer interface {
	Name() string
	NextBar(cash, value float64)
	Lines() []*series.Line
}

// Cash records the free cash per bar.
type Cash struct {
	line *series.Line
}

func NewCash() *Cash {
	return &Cash{line: series.NewLine("cash")}
}

func (o *Cash) Name() string { return "cash" }

func (o *Cash) NextBar(cash, _ float64) {
	o.line.Append(cash)
}

func (o *Cash) Lines() []*series.Line { return []*series.Line{o.line} }

// Value records the total portfolio value per bar.
type Value struct {
	line *series.Line
}

func NewValue() *Value {
	return &Value{line: series.NewLine("value")}
}

func (o *Value) Name() string { return "value" }

func (o *Value) NextBar(_, value float64) {
	o.line.Append(value)
}

func (o *Value) Lines() []*series.Line { return []*series.Line{o.line} }

// DrawDown records the running drawdown percentage per bar.
type DrawDown struct {
	peak float64
	line *series.Line
}

func NewDrawDown() *DrawDown {
	return &DrawDown{line: series.NewLine("drawdown")}
}

func (o *DrawDown) Name() string { return "drawdown" }

func (o *DrawDown) NextBar(_, value float64) {
	if value > o.peak {
		o.peak = value
	}
	if o.peak <= 0 {
		o.line.Append(0)
		return
	}
	o.line.Append((o.peak - value) / o.peak * 100.0)
}

func (o *DrawDown) Lines() []*series.Line { return []*series.Line{o.line} }
