// Package engine drives a backtest bar by bar: it preloads feeds,
// dispatches the strategy lifecycle, matches orders through the broker
// and collects the analyzer output into a run result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/analyzer"
	"github.com/quantworks/cerebro/service/broker"
	"github.com/quantworks/cerebro/service/feed"
	"github.com/quantworks/cerebro/service/observer"
	"github.com/quantworks/cerebro/service/strategy"
)

// NewService creates an engine with the given configuration. Zero-value
// config fields fall back to 100k cash, no commission and a no-op logger.
func NewService(cfg Config) Service {
	if cfg.Cash <= 0 {
		cfg.Cash = 100000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	brk := broker.New(cfg.Cash)
	if cfg.Scheme != nil {
		brk.SetScheme(cfg.Scheme)
	}
	brk.SetSlippage(cfg.Slippage)
	if cfg.Filler != nil {
		brk.SetFiller(cfg.Filler)
	}
	brk.SetCheatOnClose(cfg.CheatOnClose)
	return &service{cfg: cfg, brk: brk}
}

func (s *service) AddFeed(f feed.Feed) {
	s.feeds = append(s.feeds, f)
}

func (s *service) SetStrategy(name string, strat strategy.Strategy) {
	s.stratName = name
	s.strat = strat
}

func (s *service) AddAnalyzer(a analyzer.Analyzer) {
	s.analyzers = append(s.analyzers, a)
}

func (s *service) AddObserver(o observer.Observer) {
	s.observers = append(s.observers, o)
}

func (s *service) Broker() *broker.Broker { return s.brk }

// Run executes the backtest. The context is checked every bar so a
// cancellation stops the run cleanly.
func (s *service) Run(ctx context.Context) (*model.RunResult, error) {
	if len(s.feeds) == 0 {
		return nil, errors.New("no data feed attached")
	}
	if s.strat == nil {
		return nil, errors.New("no strategy attached")
	}

	started := time.Now()
	log := s.cfg.Logger

	primary := s.feeds[0]
	for _, f := range s.feeds {
		f.Reset()
		if err := f.Load(); err != nil {
			return nil, fmt.Errorf("failed to load feed %s: %w", f.Name(), err)
		}
	}
	log.Debug("feeds loaded",
		zap.String("primary", primary.Name()),
		zap.Int("bars", primary.Len()))

	s.brk.Reset()
	s.brk.SetOrderCallback(s.strat.NotifyOrder)
	s.brk.SetTradeCallback(func(tr *broker.Trade) {
		s.strat.NotifyTrade(tr)
		for _, a := range s.analyzers {
			a.NotifyTrade(tr)
		}
	})

	sctx := &strategy.Context{
		Data:     primary.Data(),
		DataName: primary.Name(),
		Broker:   s.brk,
		Sizer:    s.cfg.Sizer,
		Logger:   log,
	}
	if err := s.strat.Init(sctx); err != nil {
		return nil, fmt.Errorf("strategy init failed: %w", err)
	}
	s.strat.Start()
	for _, a := range s.analyzers {
		a.Start(s.brk.StartCash())
	}

	minPeriod := s.strat.MinPeriod()
	bars := primary.Bars()
	equity := make([]model.EquityPoint, 0, len(bars))

	startedFirst := false
	barIndex := 0
	for primary.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled at bar %d: %w", barIndex, err)
		}
		bar := bars[barIndex]
		sctx.BarIndex = barIndex

		// pending orders match against the new bar before the strategy
		// sees it
		s.brk.Next(primary.Name(), bar, barIndex)

		s.strat.UpdateIndicators(bar.Close)

		if barIndex+1 < minPeriod {
			s.strat.PreNext()
		} else {
			if !startedFirst {
				startedFirst = true
				s.strat.NextStart()
			}
			s.strat.Next()
		}

		if s.cfg.CheatOnClose {
			s.brk.NextClose(primary.Name(), bar, barIndex)
		}

		cash, value := s.brk.Cash(), s.brk.Value()
		s.strat.NotifyCashValue(cash, value)
		for _, a := range s.analyzers {
			a.NextBar(bar.Time, cash, value)
		}
		for _, o := range s.observers {
			o.NextBar(cash, value)
		}
		equity = append(equity, model.EquityPoint{Time: bar.Time, Cash: cash, Value: value})

		barIndex++
	}

	s.strat.Stop()
	for _, a := range s.analyzers {
		a.Stop()
	}

	analysis := map[string]float64{}
	for _, a := range s.analyzers {
		for k, v := range a.Analysis() {
			analysis[k] = v
		}
	}

	trades := make([]model.TradeRecord, 0, len(s.brk.Trades()))
	for _, tr := range s.brk.Trades() {
		trades = append(trades, model.TradeRecord{
			EntryTime:  tr.EntryTime,
			ExitTime:   tr.ExitTime,
			Size:       tr.Size,
			EntryPrice: tr.EntryPrice,
			ExitPrice:  tr.ExitPrice,
			PnL:        tr.PnL,
			PnLComm:    tr.PnLComm,
			Commission: tr.Commission,
			BarsHeld:   tr.BarsHeld(),
		})
	}

	startCash := s.brk.StartCash()
	endValue := s.brk.Value()
	result := &model.RunResult{
		RunID:       uuid.NewString(),
		Strategy:    s.stratName,
		DataName:    primary.Name(),
		Params:      s.params,
		StartCash:   startCash,
		EndCash:     s.brk.Cash(),
		EndValue:    endValue,
		PnL:         endValue - startCash,
		TotalBars:   barIndex,
		TotalTrades: len(trades),
		Trades:      trades,
		Equity:      equity,
		Analysis:    analysis,
		Duration:    time.Since(started),
	}
	if startCash != 0 {
		result.PnLPct = result.PnL / startCash * 100.0
	}

	log.Debug("run finished",
		zap.String("run_id", result.RunID),
		zap.Int("bars", result.TotalBars),
		zap.Int("trades", result.TotalTrades),
		zap.Float64("pnl", result.PnL))

	return result, nil
}

// SetParams records the parameter set for reporting; the strategy itself
// is built from these by the caller.
func (s *service) SetParams(p model.Params) { s.params = p }
