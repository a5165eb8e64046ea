package indicator

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// MACD is the moving average convergence/divergence: fast EMA minus slow
// EMA, a signal EMA over that difference, and their histogram.
type MACD struct {
	fast      *EMA
	slow      *EMA
	signalEMA *EMA
	slowP     int
	signalP   int
	macd      *series.Line
	signal    *series.Line
	hist      *series.Line
}

func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	m := &MACD{
		fast:      NewEMA(fastPeriod),
		slow:      NewEMA(slowPeriod),
		signalEMA: NewEMA(signalPeriod),
		slowP:     slowPeriod,
		signalP:   signalPeriod,
		macd:      series.NewLine("macd"),
		signal:    series.NewLine("signal"),
		hist:      series.NewLine("hist"),
	}
	m.macd.SetMinPeriod(slowPeriod)
	m.signal.SetMinPeriod(slowPeriod + signalPeriod - 1)
	m.hist.SetMinPeriod(slowPeriod + signalPeriod - 1)
	return m
}

func (m *MACD) Update(v float64) {
	m.fast.Update(v)
	m.slow.Update(v)

	fast, slow := m.fast.Line().Get(0), m.slow.Line().Get(0)
	if math.IsNaN(fast) || math.IsNaN(slow) {
		m.macd.Append(math.NaN())
		m.signal.Append(math.NaN())
		m.hist.Append(math.NaN())
		return
	}

	diff := fast - slow
	m.macd.Append(diff)

	m.signalEMA.Update(diff)
	sig := m.signalEMA.Line().Get(0)
	m.signal.Append(sig)
	if math.IsNaN(sig) {
		m.hist.Append(math.NaN())
		return
	}
	m.hist.Append(diff - sig)
}

// Line returns the MACD line.
func (m *MACD) Line() *series.Line   { return m.macd }
func (m *MACD) Signal() *series.Line { return m.signal }
func (m *MACD) Hist() *series.Line   { return m.hist }
func (m *MACD) MinPeriod() int       { return m.slowP + m.signalP - 1 }
