// Package strategy defines the strategy lifecycle, the trading helpers
// available to strategies, sizers, signals and the built-in strategies.
package strategy

import (
	"go.uber.org/zap"

	"github.com/quantworks/cerebro/service/broker"
	"github.com/quantworks/cerebro/service/indicator"
	"github.com/quantworks/cerebro/service/series"
)

// Strategy is the per-bar lifecycle driven by the engine. PreNext runs
// while indicators warm up, NextStart runs once on the first ready bar
// just before the first Next, and Next runs on every ready bar.
type Strategy interface {
	Init(ctx *Context) error
	Start()
	PreNext()
	NextStart()
	Next()
	Stop()

	NotifyOrder(o *broker.Order)
	NotifyTrade(t *broker.Trade)
	NotifyCashValue(cash, value float64)

	// UpdateIndicators streams the bar's close into the registered
	// indicators, in registration order.
	UpdateIndicators(close float64)
	MinPeriod() int
}

// Context is the execution environment the engine hands to a strategy.
type Context struct {
	Data     *series.OHLCV
	DataName string
	Broker   *broker.Broker
	Sizer    Sizer
	Logger   *zap.Logger
	BarIndex int
}

// Base supplies no-op lifecycle defaults and the trading API. Concrete
// strategies embed it and override what they need.
type Base struct {
	ctx  *Context
	inds []indicator.Indicator
}

// Init stores the context. Overriding strategies must call it before
// registering indicators.
func (b *Base) Init(ctx *Context) error {
	b.ctx = ctx
	if ctx.Logger == nil {
		ctx.Logger = zap.NewNop()
	}
	if ctx.Sizer == nil {
		ctx.Sizer = FixedSizer{Stake: 1}
	}
	return nil
}

func (b *Base) Start()                         {}
func (b *Base) PreNext()                       {}
func (b *Base) NextStart()                     {}
func (b *Base) Next()                          {}
func (b *Base) Stop()                          {}
func (b *Base) NotifyOrder(*broker.Order)      {}
func (b *Base) NotifyTrade(*broker.Trade)      {}
func (b *Base) NotifyCashValue(_, _ float64)   {}

// Ctx exposes the execution context.
func (b *Base) Ctx() *Context { return b.ctx }

// Data is the primary data feed lines.
func (b *Base) Data() *series.OHLCV { return b.ctx.Data }

// Logger is the run logger.
func (b *Base) Logger() *zap.Logger { return b.ctx.Logger }

// AddIndicator registers an indicator for per-bar updates. Indicators
// reading other indicator lines must be added after their sources.
func (b *Base) AddIndicator(ind indicator.Indicator) {
	b.inds = append(b.inds, ind)
}

func (b *Base) UpdateIndicators(close float64) {
	for _, ind := range b.inds {
		ind.Update(close)
	}
}

// MinPeriod is the largest warm-up over the registered indicators.
func (b *Base) MinPeriod() int {
	min := 1
	for _, ind := range b.inds {
		if p := ind.MinPeriod(); p > min {
			min = p
		}
	}
	return min
}

// Position is the current position on the primary data.
func (b *Base) Position() broker.Position {
	return b.ctx.Broker.Position(b.ctx.DataName)
}

func (b *Base) defaultSize() float64 {
	price := b.ctx.Data.Close().Get(0)
	return b.ctx.Sizer.Size(b.ctx.Broker, b.ctx.DataName, b.ctx.Broker.Cash(), price)
}

// Buy submits a market buy sized by the strategy's sizer.
func (b *Base) Buy() *broker.Order {
	return b.BuySize(b.defaultSize())
}

// BuySize submits a market buy of the given size.
func (b *Base) BuySize(size float64) *broker.Order {
	return b.ctx.Broker.Buy(b.ctx.DataName, size, broker.Market, 0, 0)
}

// BuyLimit submits a limit buy of the given size.
func (b *Base) BuyLimit(size, limit float64) *broker.Order {
	return b.ctx.Broker.Buy(b.ctx.DataName, size, broker.Limit, limit, 0)
}

// Sell submits a market sell sized by the strategy's sizer.
func (b *Base) Sell() *broker.Order {
	return b.SellSize(b.defaultSize())
}

// SellSize submits a market sell of the given size.
func (b *Base) SellSize(size float64) *broker.Order {
	return b.ctx.Broker.Sell(b.ctx.DataName, size, broker.Market, 0, 0)
}

// SellLimit submits a limit sell of the given size.
func (b *Base) SellLimit(size, limit float64) *broker.Order {
	return b.ctx.Broker.Sell(b.ctx.DataName, size, broker.Limit, limit, 0)
}

// Close flattens the current position with a market order. It returns
// nil when already flat.
func (b *Base) Close() *broker.Order {
	return b.OrderTargetSize(0)
}

// OrderTargetSize trades the difference between the current position and
// the target size. It returns nil when nothing needs to trade.
func (b *Base) OrderTargetSize(target float64) *broker.Order {
	delta := target - b.Position().Size
	if delta > 0 {
		return b.BuySize(delta)
	}
	if delta < 0 {
		return b.SellSize(-delta)
	}
	return nil
}

// OrderTargetValue targets a position worth the given value at the
// current close.
func (b *Base) OrderTargetValue(value float64) *broker.Order {
	price := b.ctx.Data.Close().Get(0)
	if price <= 0 {
		return nil
	}
	return b.OrderTargetSize(value / price)
}

// OrderTargetPercent targets a position worth the given fraction of the
// portfolio value (0.5 means 50%).
func (b *Base) OrderTargetPercent(percent float64) *broker.Order {
	return b.OrderTargetValue(b.ctx.Broker.Value() * percent)
}
