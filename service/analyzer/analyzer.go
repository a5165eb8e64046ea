// Package analyzer computes performance analytics over a run. Each
// analyzer observes the portfolio bar by bar and the trades as they
// close, then delivers a flat metric map.
package analyzer

import (
	"time"

	"github.com/quantworks/cerebro/service/broker"
)

// Analyzer is attached to the engine and fed during the run.
type Analyzer interface {
	Name() string
	Start(startCash float64)
	NextBar(t time.Time, cash, value float64)
	NotifyTrade(tr *broker.Trade)
	Stop()
	Analysis() map[string]float64
}

// nop carries empty defaults so analyzers only implement what they use.
type nop struct{}

func (nop) Start(float64)                      {}
func (nop) NextBar(time.Time, float64, float64) {}
func (nop) NotifyTrade(*broker.Trade)          {}
func (nop) Stop()                              {}

// Defaults returns the standard analyzer set attached to every run.
func Defaults() []Analyzer {
	return []Analyzer{
		NewTradeStats(),
		NewReturns(),
		NewSharpe(),
		NewDrawDown(),
		NewSQN(),
	}
}
