// Package broker simulates order execution, cash and position accounting
// against historical bars.
package broker

import (
	"time"

	"github.com/quantworks/cerebro/model"
)

// OrderType is the execution type of an order.
type OrderType int

const (
	Market OrderType = iota
	Limit
	Stop
	StopLimit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "Market"
	case Limit:
		return "Limit"
	case Stop:
		return "Stop"
	case StopLimit:
		return "StopLimit"
	}
	return "Unknown"
}

// Side is the direction of an order.
type Side int

const (
	BuySide Side = iota
	SellSide
)

func (s Side) String() string {
	if s == SellSide {
		return "Sell"
	}
	return "Buy"
}

// Status is the lifecycle state of an order.
type Status int

const (
	Created Status = iota
	Submitted
	Accepted
	Partial
	Completed
	Canceled
	Rejected
	MarginCall
	Expired
)

func (s Status) String() string {
	switch s {
	case Created:
		return "Created"
	case Submitted:
		return "Submitted"
	case Accepted:
		return "Accepted"
	case Partial:
		return "Partial"
	case Completed:
		return "Completed"
	case Canceled:
		return "Canceled"
	case Rejected:
		return "Rejected"
	case MarginCall:
		return "Margin"
	case Expired:
		return "Expired"
	}
	return "Unknown"
}

// ExecInfo records how an order was filled.
type ExecInfo struct {
	Price      float64
	Size       float64
	Commission float64
	BarIndex   int
	Time       time.Time
}

// Order is a single instruction to the broker. Size is always positive;
// direction lives in Side.
type Order struct {
	ID         int64
	Data       string
	Side       Side
	Type       OrderType
	Size       float64
	LimitPrice float64
	StopPrice  float64
	Status     Status
	Created    time.Time
	Executed   ExecInfo

	// remaining size yet to fill and whether a stop has triggered
	remaining float64
	triggered bool
}

// Alive reports whether the order can still execute.
func (o *Order) Alive() bool {
	switch o.Status {
	case Created, Submitted, Accepted, Partial:
		return true
	}
	return false
}

// Remaining is the unfilled size.
func (o *Order) Remaining() float64 { return o.remaining }

// signedSize is positive for buys, negative for sells.
func (o *Order) signedSize(size float64) float64 {
	if o.Side == SellSide {
		return -size
	}
	return size
}

// effectivePrice is the price the order would match at inside the given
// bar, or NaN semantics via ok=false when it cannot match.
func (o *Order) matchPrice(bar model.Bar, open bool) (float64, bool) {
	ref := bar.Open
	if !open {
		ref = bar.Close
	}

	typ := o.Type
	if typ == Stop || typ == StopLimit {
		if !o.triggered {
			hit := (o.Side == BuySide && bar.High >= o.StopPrice) ||
				(o.Side == SellSide && bar.Low <= o.StopPrice)
			if !hit {
				return 0, false
			}
			o.triggered = true
			// on the trigger bar the price reaches the stop level
			// before anything beyond it; the reference cannot be
			// better than the stop unless the bar opened through it
			if o.Side == BuySide && ref < o.StopPrice {
				ref = o.StopPrice
			}
			if o.Side == SellSide && ref > o.StopPrice {
				ref = o.StopPrice
			}
		}
		if typ == Stop {
			typ = Market
		} else {
			typ = Limit
		}
	}

	switch typ {
	case Market:
		return ref, true
	case Limit:
		if o.Side == BuySide {
			if bar.Low <= o.LimitPrice {
				if ref < o.LimitPrice {
					return ref, true
				}
				return o.LimitPrice, true
			}
		} else {
			if bar.High >= o.LimitPrice {
				if ref > o.LimitPrice {
					return ref, true
				}
				return o.LimitPrice, true
			}
		}
	}
	return 0, false
}
