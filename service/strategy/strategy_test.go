package strategy

import (
	"testing"
	"time"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/broker"
	"github.com/quantworks/cerebro/service/series"
)

// harness wires a strategy to a broker and hand-fed bars.
type harness struct {
	t    *testing.T
	brk  *broker.Broker
	data *series.OHLCV
	s    Strategy
	bar  int
}

func newHarness(t *testing.T, s Strategy, cash float64, sizer Sizer) *harness {
	t.Helper()
	h := &harness{t: t, brk: broker.New(cash), data: series.NewOHLCV(), s: s}
	h.brk.SetOrderCallback(s.NotifyOrder)
	h.brk.SetTradeCallback(s.NotifyTrade)
	err := s.Init(&Context{Data: h.data, DataName: "test", Broker: h.brk, Sizer: sizer})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	s.Start()
	return h
}

func (h *harness) step(price float64) {
	b := model.Bar{
		Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, h.bar),
		Open:   price,
		High:   price + 1,
		Low:    price - 1,
		Close:  price,
		Volume: 1e6,
	}
	h.data.AddBar(b)
	h.data.Advance()
	h.brk.Next("test", b, h.bar)
	h.s.UpdateIndicators(b.Close)
	if h.bar+1 >= h.s.MinPeriod() {
		h.s.Next()
	} else {
		h.s.PreNext()
	}
	h.bar++
}

func TestFixedSizer(t *testing.T) {
	s := FixedSizer{Stake: 25}
	if got := s.Size(nil, "test", 1000, 10); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}
}

func TestPercentSizer(t *testing.T) {
	s := PercentSizer{Percent: 50}
	if got := s.Size(nil, "test", 1000, 10); got != 50 {
		t.Errorf("expected 50 units, got %v", got)
	}
	if got := s.Size(nil, "test", 1000, 0); got != 0 {
		t.Errorf("expected 0 at zero price, got %v", got)
	}
}

func TestAllInSizer(t *testing.T) {
	b := broker.New(1000)
	s := AllInSizer{}
	if got := s.Size(b, "test", 1000, 10); got != 100 {
		t.Errorf("expected 100 units, got %v", got)
	}
}

func TestNewSizerUnknown(t *testing.T) {
	if _, err := NewSizer("bogus", 0, 0); err == nil {
		t.Error("expected an error for an unknown sizer")
	}
	if _, err := NewSizer("percent", 0, 120); err == nil {
		t.Error("expected an error for percent > 100")
	}
}

func TestRegistryCreate(t *testing.T) {
	s, err := Create("smacross", model.Params{"fast": 3, "slow": 6})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	sc, ok := s.(*SMACross)
	if !ok {
		t.Fatalf("expected *SMACross, got %T", s)
	}
	if sc.Fast != 3 || sc.Slow != 6 {
		t.Errorf("params not applied: %+v", sc)
	}

	if _, err := Create("missing", nil); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	names := Names()
	if len(names) < 4 {
		t.Fatalf("expected at least the 4 built-ins, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestSMACrossTradesOnCross(t *testing.T) {
	s, err := Create("smacross", model.Params{"fast": 2, "slow": 4})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	h := newHarness(t, s, 100000, FixedSizer{Stake: 10})

	// decline, sharp rise (golden cross), then collapse (death cross)
	for _, p := range []float64{100, 98, 96, 94, 92, 100, 108, 116, 90, 70, 65} {
		h.step(p)
	}

	if pos := h.brk.Position("test"); pos.Size != 0 {
		t.Errorf("expected flat after the death cross, got %v", pos.Size)
	}
	if len(h.brk.Trades()) != 1 {
		t.Errorf("expected one completed round trip, got %d", len(h.brk.Trades()))
	}
}

func TestRSIRevertBuysOversold(t *testing.T) {
	s, err := Create("rsirevert", model.Params{"period": 3, "lower": 30.0, "upper": 70.0})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	h := newHarness(t, s, 100000, FixedSizer{Stake: 5})

	// straight decline pins RSI at 0
	for _, p := range []float64{100, 98, 96, 94, 92} {
		h.step(p)
	}
	h.step(90) // fills the pending entry

	if pos := h.brk.Position("test"); pos.Size != 5 {
		t.Errorf("expected a 5-unit long, got %v", pos.Size)
	}

	// strong recovery pushes RSI past the upper bound and exits
	for _, p := range []float64{95, 100, 105, 110, 112} {
		h.step(p)
	}
	if pos := h.brk.Position("test"); pos.Size != 0 {
		t.Errorf("expected flat after recovery, got %v", pos.Size)
	}
}

func TestOrderTargetHelpers(t *testing.T) {
	brk := broker.New(100000)
	data := series.NewOHLCV()
	b := &Base{}
	if err := b.Init(&Context{Data: data, DataName: "test", Broker: brk}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	bar := model.Bar{Time: time.Now(), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1e6}
	data.AddBar(bar)
	data.Advance()
	brk.Next("test", bar, 0)

	o := b.OrderTargetSize(10)
	if o == nil || o.Side != broker.BuySide || o.Size != 10 {
		t.Fatalf("expected a 10-unit buy, got %+v", o)
	}
	brk.Next("test", bar, 1)

	o = b.OrderTargetValue(500)
	if o == nil || o.Side != broker.SellSide || o.Size != 5 {
		t.Fatalf("expected a 5-unit sell toward 500 value, got %+v", o)
	}
	brk.Next("test", bar, 2)

	if o = b.OrderTargetSize(5); o != nil {
		t.Errorf("expected nil when already at target, got %+v", o)
	}

	o = b.Close()
	if o == nil || o.Side != broker.SellSide || o.Size != 5 {
		t.Fatalf("expected a flattening 5-unit sell, got %+v", o)
	}
}

func TestSignalStrategyLongEntryAndExit(t *testing.T) {
	sigLine := series.NewLine("signal")
	exitLine := series.NewLine("exit")

	s := NewSignalStrategy()
	s.AddSignal(SignalLong, sigLine)
	s.AddSignal(SignalLongExit, exitLine)
	h := newHarness(t, s, 100000, FixedSizer{Stake: 10})

	push := func(price, sig, exit float64) {
		sigLine.Append(sig)
		exitLine.Append(exit)
		h.step(price)
	}

	push(100, 0, 0)
	if h.brk.PendingCount() != 0 {
		t.Fatal("no entry expected without a signal")
	}

	push(101, 1, 0) // entry signal
	push(102, 0, 0) // order fills at this open
	if pos := h.brk.Position("test"); pos.Size != 10 {
		t.Fatalf("expected a 10-unit long, got %v", pos.Size)
	}

	push(103, 0, 1) // exit signal
	push(104, 0, 0) // close fills
	if pos := h.brk.Position("test"); pos.Size != 0 {
		t.Errorf("expected flat after exit signal, got %v", pos.Size)
	}
	if len(h.brk.Trades()) != 1 {
		t.Errorf("expected one closed trade, got %d", len(h.brk.Trades()))
	}
}

func TestSignalFiredVariants(t *testing.T) {
	line := series.NewLine("sig")
	line.Append(-1)

	if (Signal{Type: SignalLong, Line: line}).Fired() {
		t.Error("plain long must need a positive value")
	}
	if !(Signal{Type: SignalLongInv, Line: line}).Fired() {
		t.Error("inverted long must fire on a negative value")
	}
	if !(Signal{Type: SignalLongAny, Line: line}).Fired() {
		t.Error("any-long must fire on any non-zero value")
	}
}
