package broker

import (
	"time"

	"github.com/quantworks/cerebro/model"
)

// Broker matches pending orders against incoming bars and keeps the cash,
// position and trade accounting of a backtest.
type Broker struct {
	cash      float64
	startCash float64

	scheme   Scheme
	schemes  map[string]Scheme
	slippage Slippage
	filler   Filler
	coc      bool

	positions  map[string]*Position
	lastClose  map[string]float64
	pending    []*Order
	orders     []*Order
	trades     []*Trade
	openTrades map[string]*Trade

	orderSeq int64
	tradeSeq int64

	orderCb func(*Order)
	tradeCb func(*Trade)
}

// New creates a broker with the given starting cash, no commission and
// unconstrained volume filling.
func New(cash float64) *Broker {
	return &Broker{
		cash:       cash,
		startCash:  cash,
		scheme:     NewPercScheme(0, true),
		schemes:    map[string]Scheme{},
		filler:     AllFiller{},
		positions:  map[string]*Position{},
		lastClose:  map[string]float64{},
		openTrades: map[string]*Trade{},
	}
}

// SetScheme sets the default commission scheme.
func (b *Broker) SetScheme(s Scheme) { b.scheme = s }

// SetSchemeFor sets a commission scheme for one data feed.
func (b *Broker) SetSchemeFor(data string, s Scheme) { b.schemes[data] = s }

func (b *Broker) schemeFor(data string) Scheme {
	if s, ok := b.schemes[data]; ok {
		return s
	}
	return b.scheme
}

// SetSlippage configures execution slippage.
func (b *Broker) SetSlippage(s Slippage) { b.slippage = s }

// SetFiller configures volume-limited filling.
func (b *Broker) SetFiller(f Filler) { b.filler = f }

// SetCheatOnClose makes market orders placed during a bar execute at that
// bar's close instead of the next open.
func (b *Broker) SetCheatOnClose(coc bool) { b.coc = coc }

// CheatOnClose reports whether cheat-on-close is active.
func (b *Broker) CheatOnClose() bool { return b.coc }

// SetOrderCallback registers the order notification hook.
func (b *Broker) SetOrderCallback(cb func(*Order)) { b.orderCb = cb }

// SetTradeCallback registers the trade notification hook.
func (b *Broker) SetTradeCallback(cb func(*Trade)) { b.tradeCb = cb }

// SetCash replaces the starting cash. Only meaningful before the run.
func (b *Broker) SetCash(c float64) {
	b.cash = c
	b.startCash = c
}

// AddCash adds (or with a negative amount removes) cash mid-run.
func (b *Broker) AddCash(c float64) { b.cash += c }

// Cash is the current free cash.
func (b *Broker) Cash() float64 { return b.cash }

// StartCash is the cash the run began with.
func (b *Broker) StartCash() float64 { return b.startCash }

// Position returns a copy of the position for the data feed.
func (b *Broker) Position(data string) Position {
	if p, ok := b.positions[data]; ok {
		return *p
	}
	return Position{}
}

// Value is cash plus the mark-to-market value of all open positions.
func (b *Broker) Value() float64 {
	v := b.cash
	for data, pos := range b.positions {
		if pos.Size == 0 {
			continue
		}
		last, ok := b.lastClose[data]
		if !ok {
			last = pos.Price
		}
		scheme := b.schemeFor(data)
		if usesMargin(scheme, pos.Price) {
			v += abs(pos.Size)*scheme.Margin(pos.Price) +
				scheme.ProfitAndLoss(pos.Size, pos.Price, last)
		} else {
			v += pos.Size * last * scheme.Mult()
		}
	}
	return v
}

// SizeFor is the number of units the given cash can open at price under
// the feed's commission scheme.
func (b *Broker) SizeFor(data string, cash, price float64) float64 {
	return b.schemeFor(data).GetSize(cash, price)
}

// Buy submits a buy order. Limit and stop prices are used according to
// the order type.
func (b *Broker) Buy(data string, size float64, typ OrderType, limit, stop float64) *Order {
	return b.submit(data, BuySide, size, typ, limit, stop)
}

// Sell submits a sell order.
func (b *Broker) Sell(data string, size float64, typ OrderType, limit, stop float64) *Order {
	return b.submit(data, SellSide, size, typ, limit, stop)
}

func (b *Broker) submit(data string, side Side, size float64, typ OrderType, limit, stop float64) *Order {
	b.orderSeq++
	o := &Order{
		ID:         b.orderSeq,
		Data:       data,
		Side:       side,
		Type:       typ,
		Size:       size,
		LimitPrice: limit,
		StopPrice:  stop,
		Status:     Created,
		Created:    time.Now(),
		remaining:  size,
	}
	b.orders = append(b.orders, o)

	if size <= 0 {
		o.Status = Rejected
		b.notifyOrder(o)
		return o
	}

	o.Status = Submitted
	b.notifyOrder(o)
	o.Status = Accepted
	b.notifyOrder(o)
	b.pending = append(b.pending, o)
	return o
}

// Cancel cancels a pending order by id.
func (b *Broker) Cancel(id int64) bool {
	for _, o := range b.pending {
		if o.ID == id && o.Alive() {
			o.Status = Canceled
			b.notifyOrder(o)
			b.prunePending()
			return true
		}
	}
	return false
}

// Next matches pending orders for the data feed against a new bar. Market
// orders fill at the bar's open.
func (b *Broker) Next(data string, bar model.Bar, barIndex int) {
	b.lastClose[data] = bar.Close
	b.match(data, bar, barIndex, true, false)
}

// NextClose matches market orders at the current bar's close, for
// cheat-on-close runs.
func (b *Broker) NextClose(data string, bar model.Bar, barIndex int) {
	b.lastClose[data] = bar.Close
	b.match(data, bar, barIndex, false, true)
}

func (b *Broker) match(data string, bar model.Bar, barIndex int, atOpen, marketOnly bool) {
	for _, o := range b.pending {
		if o.Data != data || !o.Alive() {
			continue
		}
		if marketOnly && o.Type != Market {
			continue
		}
		price, ok := o.matchPrice(bar, atOpen)
		if !ok {
			continue
		}
		fill := b.filler.Fill(o, price, bar.Volume)
		if fill <= 0 {
			continue
		}
		if o.Type != Limit || b.slippage.SlipLimit {
			price = b.slippage.Apply(price, o.Side)
		}
		b.execute(o, price, fill, barIndex, bar.Time)
	}
	b.prunePending()
}

func (b *Broker) execute(o *Order, price, fill float64, barIndex int, barTime time.Time) {
	scheme := b.schemeFor(o.Data)
	signed := o.signedSize(fill)
	comm := scheme.Commission(signed, price)

	// margin check: an opening buy must be affordable
	if o.Side == BuySide {
		pos := b.position(o.Data)
		if pos.Size >= 0 && scheme.OperationCost(signed, price)+comm > b.cash {
			o.Status = MarginCall
			b.notifyOrder(o)
			return
		}
	}

	pos := b.position(o.Data)
	entryPrice := pos.Price
	closed, opened := pos.Update(signed, price)

	if usesMargin(scheme, price) {
		if closed != 0 {
			b.cash += abs(closed)*scheme.Margin(entryPrice) +
				scheme.ProfitAndLoss(-closed, entryPrice, price)
		}
		if opened != 0 {
			b.cash -= abs(opened) * scheme.Margin(price)
		}
	} else {
		b.cash -= signed * price * scheme.Mult()
	}
	b.cash -= comm

	b.recordTrade(o.Data, pos, closed, opened, entryPrice, price, comm, barIndex, barTime, scheme)

	// average the execution price across partial fills
	exec := &o.Executed
	total := exec.Size + fill
	if total > 0 {
		exec.Price = (exec.Price*exec.Size + price*fill) / total
	}
	exec.Size = total
	exec.Commission += comm
	exec.BarIndex = barIndex
	exec.Time = barTime

	o.remaining -= fill
	if o.remaining <= 1e-9 {
		o.remaining = 0
		o.Status = Completed
	} else {
		o.Status = Partial
	}
	b.notifyOrder(o)
}

func (b *Broker) recordTrade(data string, pos *Position, closed, opened, entryPrice, price, comm float64, barIndex int, barTime time.Time, scheme Scheme) {
	trade := b.openTrades[data]

	if closed != 0 && trade != nil {
		trade.PnL += scheme.ProfitAndLoss(-closed, trade.EntryPrice, price)
		trade.Commission += comm
		comm = 0
		if pos.Size == 0 || !sameSign(pos.Size, trade.Size) {
			trade.ExitPrice = price
			trade.ExitTime = barTime
			trade.ExitBar = barIndex
			trade.PnLComm = trade.PnL - trade.Commission
			trade.IsOpen = false
			b.trades = append(b.trades, trade)
			delete(b.openTrades, data)
			b.notifyTrade(trade)
			trade = nil
		}
	}

	if opened != 0 {
		if trade == nil {
			b.tradeSeq++
			trade = &Trade{
				ID:         b.tradeSeq,
				Data:       data,
				Size:       opened,
				EntryPrice: price,
				EntryTime:  barTime,
				EntryBar:   barIndex,
				Commission: comm,
				IsOpen:     true,
			}
			b.openTrades[data] = trade
			b.notifyTrade(trade)
			return
		}
		// scaling in: follow the position's averaged entry
		trade.Size += opened
		trade.EntryPrice = pos.Price
		trade.Commission += comm
	}
}

func (b *Broker) position(data string) *Position {
	p, ok := b.positions[data]
	if !ok {
		p = &Position{}
		b.positions[data] = p
	}
	return p
}

func (b *Broker) prunePending() {
	alive := b.pending[:0]
	for _, o := range b.pending {
		if o.Alive() {
			alive = append(alive, o)
		}
	}
	b.pending = alive
}

func (b *Broker) notifyOrder(o *Order) {
	if b.orderCb != nil {
		b.orderCb(o)
	}
}

func (b *Broker) notifyTrade(t *Trade) {
	if b.tradeCb != nil {
		b.tradeCb(t)
	}
}

// Trades returns the closed trades in close order.
func (b *Broker) Trades() []*Trade { return b.trades }

// Orders returns every order ever submitted.
func (b *Broker) Orders() []*Order { return b.orders }

// PendingCount is the number of orders still working.
func (b *Broker) PendingCount() int { return len(b.pending) }

// Reset restores the broker to its starting state.
func (b *Broker) Reset() {
	b.cash = b.startCash
	b.positions = map[string]*Position{}
	b.lastClose = map[string]float64{}
	b.pending = nil
	b.orders = nil
	b.trades = nil
	b.openTrades = map[string]*Trade{}
	b.orderSeq = 0
	b.tradeSeq = 0
}

// usesMargin reports whether the scheme retains margin instead of the
// full traded value.
func usesMargin(s Scheme, price float64) bool {
	return s.Margin(price) != price*s.Mult()
}
