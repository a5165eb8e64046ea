package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/analyzer"
	"github.com/quantworks/cerebro/service/feed"
	"github.com/quantworks/cerebro/service/observer"
	"github.com/quantworks/cerebro/service/strategy"
)

// sineBars builds an oscillating price series that forces SMA crossovers.
func sineBars(n int) []model.Bar {
	bars := make([]model.Bar, 0, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100.0 + 20.0*math.Sin(float64(i)/8.0)
		bars = append(bars, model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price + 0.5,
			Volume: 1e6,
		})
	}
	return bars
}

func newTestEngine(t *testing.T, stratName string, params model.Params, bars []model.Bar) Service {
	t.Helper()
	eng := NewService(Config{Cash: 100000, Sizer: strategy.FixedSizer{Stake: 10}})
	eng.AddFeed(feed.NewMemory("test", bars))
	strat, err := strategy.Create(stratName, params)
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	eng.SetStrategy(stratName, strat)
	eng.SetParams(params)
	return eng
}

func TestRunSMACrossProducesTrades(t *testing.T) {
	eng := newTestEngine(t, "smacross", model.Params{"fast": 5, "slow": 15}, sineBars(200))
	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.TotalBars != 200 {
		t.Errorf("expected 200 bars, got %d", res.TotalBars)
	}
	if res.TotalTrades == 0 {
		t.Fatal("expected crossovers to produce trades")
	}
	if len(res.Equity) != 200 {
		t.Errorf("expected an equity point per bar, got %d", len(res.Equity))
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if res.StartCash != 100000 {
		t.Errorf("expected start cash 100000, got %v", res.StartCash)
	}
	wantPnL := res.EndValue - res.StartCash
	if math.Abs(res.PnL-wantPnL) > 1e-9 {
		t.Errorf("pnl mismatch: %v vs %v", res.PnL, wantPnL)
	}
}

func TestRunAttachesAnalyzers(t *testing.T) {
	eng := newTestEngine(t, "smacross", model.Params{"fast": 5, "slow": 15}, sineBars(200))
	for _, a := range analyzer.Defaults() {
		eng.AddAnalyzer(a)
	}
	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, key := range []string{"total_trades", "win_rate", "sharpe_ratio", "max_drawdown", "total_return", "sqn"} {
		if _, ok := res.Analysis[key]; !ok {
			t.Errorf("missing analysis key %q", key)
		}
	}
	if res.TotalTrades == 0 {
		t.Fatal("expected closed trades to feed the analyzers")
	}
	if got := res.Analysis["total_trades"]; int(got) != res.TotalTrades {
		t.Errorf("analyzer counted %v trades, result has %d", got, res.TotalTrades)
	}
	won, lost := res.Analysis["won_trades"], res.Analysis["lost_trades"]
	if int(won+lost) != res.TotalTrades {
		t.Errorf("won %v + lost %v must equal %d trades", won, lost, res.TotalTrades)
	}
	if won > 0 && res.Analysis["win_rate"] <= 0 {
		t.Errorf("expected a positive win rate, got %v", res.Analysis["win_rate"])
	}
}

func TestRunRecordsObserverLines(t *testing.T) {
	bars := sineBars(60)
	eng := newTestEngine(t, "smacross", model.Params{"fast": 5, "slow": 15}, bars)
	cash := observer.NewCash()
	value := observer.NewValue()
	dd := observer.NewDrawDown()
	eng.AddObserver(cash)
	eng.AddObserver(value)
	eng.AddObserver(dd)

	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, obs := range []struct {
		name string
		got  int
	}{
		{"cash", cash.Lines()[0].Len()},
		{"value", value.Lines()[0].Len()},
		{"drawdown", dd.Lines()[0].Len()},
	} {
		if obs.got != len(bars) {
			t.Errorf("%s observer recorded %d values, want %d", obs.name, obs.got, len(bars))
		}
	}
	if got := value.Lines()[0].Values(); got[len(got)-1] != res.EndValue {
		t.Errorf("last value sample %v must match end value %v", got[len(got)-1], res.EndValue)
	}
}

func TestRunBuyHoldEntersOnce(t *testing.T) {
	bars := sineBars(50)
	eng := newTestEngine(t, "buyhold", model.Params{}, bars)
	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.TotalTrades != 0 {
		t.Errorf("buy and hold must never close a trade, got %d", res.TotalTrades)
	}
	brk := eng.Broker()
	if pos := brk.Position("test"); pos.Size != 10 {
		t.Errorf("expected a single 10-unit entry, got position %v", pos.Size)
	}
	if len(brk.Orders()) != 1 {
		t.Errorf("expected exactly one order, got %d", len(brk.Orders()))
	}
}

func TestRunCancellation(t *testing.T) {
	eng := newTestEngine(t, "buyhold", model.Params{}, sineBars(50))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Run(ctx); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}

func TestRunWithoutFeedFails(t *testing.T) {
	eng := NewService(Config{Cash: 1000})
	strat, _ := strategy.Create("buyhold", nil)
	eng.SetStrategy("buyhold", strat)
	if _, err := eng.Run(context.Background()); err == nil {
		t.Error("expected an error without a feed")
	}
}

func TestRunWithoutStrategyFails(t *testing.T) {
	eng := NewService(Config{Cash: 1000})
	eng.AddFeed(feed.NewMemory("test", sineBars(10)))
	if _, err := eng.Run(context.Background()); err == nil {
		t.Error("expected an error without a strategy")
	}
}

func TestRunCheatOnCloseFillsSameBar(t *testing.T) {
	bars := sineBars(50)
	eng := NewService(Config{Cash: 100000, CheatOnClose: true, Sizer: strategy.FixedSizer{Stake: 10}})
	eng.AddFeed(feed.NewMemory("test", bars))
	strat, err := strategy.Create("buyhold", nil)
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	eng.SetStrategy("buyhold", strat)

	if _, err := eng.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	orders := eng.Broker().Orders()
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	// buyhold enters on the first bar; cheat-on-close fills at that
	// bar's close rather than the next open
	if got := orders[0].Executed.Price; got != bars[0].Close {
		t.Errorf("expected fill at first close %v, got %v", bars[0].Close, got)
	}
}
