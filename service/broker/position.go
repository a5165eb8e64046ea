package broker

import "time"

// Position tracks the open size and average entry price of one data feed.
type Position struct {
	Size  float64
	Price float64
}

// Update applies an execution and returns the sizes that closed existing
// exposure and opened new exposure.
func (p *Position) Update(size, price float64) (closed, opened float64) {
	if p.Size == 0 {
		p.Size = size
		p.Price = price
		return 0, size
	}

	if sameSign(p.Size, size) {
		// scaling in: average the entry price
		total := p.Size + size
		p.Price = (p.Price*p.Size + price*size) / total
		p.Size = total
		return 0, size
	}

	if abs(size) <= abs(p.Size) {
		// partial or full close keeps the entry price
		p.Size += size
		if p.Size == 0 {
			p.Price = 0
		}
		return size, 0
	}

	// reversal: close everything, open the remainder at the new price
	closed = -p.Size
	opened = size + p.Size
	p.Size = opened
	p.Price = price
	return closed, opened
}

func sameSign(a, b float64) bool {
	return (a > 0) == (b > 0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Trade is a round trip: opened when a position leaves flat, closed when
// it returns to flat. PnL is tracked against the recorded entry price, so
// a close after a reversal settles at the right basis.
type Trade struct {
	ID         int64
	Data       string
	Size       float64 // signed peak entry size
	EntryPrice float64
	EntryTime  time.Time
	EntryBar   int
	ExitPrice  float64
	ExitTime   time.Time
	ExitBar    int
	PnL        float64
	PnLComm    float64
	Commission float64
	IsOpen     bool
}

// BarsHeld is the number of bars between entry and exit.
func (t *Trade) BarsHeld() int {
	if t.IsOpen {
		return 0
	}
	return t.ExitBar - t.EntryBar
}
