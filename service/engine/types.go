package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/analyzer"
	"github.com/quantworks/cerebro/service/broker"
	"github.com/quantworks/cerebro/service/feed"
	"github.com/quantworks/cerebro/service/observer"
	"github.com/quantworks/cerebro/service/strategy"
)

// Config carries the run settings the engine applies to its broker and
// strategy.
type Config struct {
	Cash         float64
	Scheme       broker.Scheme
	Slippage     broker.Slippage
	Filler       broker.Filler
	CheatOnClose bool
	Sizer        strategy.Sizer
	Logger       *zap.Logger
}

// Service orchestrates one backtest: feeds, strategy, broker, analyzers
// and observers.
type Service interface {
	AddFeed(f feed.Feed)
	SetStrategy(name string, s strategy.Strategy)
	SetParams(p model.Params)
	AddAnalyzer(a analyzer.Analyzer)
	AddObserver(o observer.Observer)
	Broker() *broker.Broker
	Run(ctx context.Context) (*model.RunResult, error)
}

type service struct {
	cfg       Config
	brk       *broker.Broker
	feeds     []feed.Feed
	stratName string
	strat     strategy.Strategy
	params    model.Params
	analyzers []analyzer.Analyzer
	observers []observer.Observer
}
