package analyzer

import (
	"math"
	"time"
)

// Sharpe computes the annualized Sharpe ratio of per-bar portfolio
// returns against a constant risk-free rate.
type Sharpe struct {
	nop
	// RiskFreeRate is annual (0.01 means 1%).
	RiskFreeRate float64
	// TradingDays converts between annual and per-bar figures.
	TradingDays int
	// Annualize scales the ratio by sqrt(TradingDays).
	Annualize bool

	prev    float64
	hasPrev bool
	returns []float64
}

func NewSharpe() *Sharpe {
	return &Sharpe{RiskFreeRate: 0.01, TradingDays: 252, Annualize: true}
}

func (a *Sharpe) Name() string { return "sharpe" }

func (a *Sharpe) NextBar(_ time.Time, _, value float64) {
	if a.hasPrev && a.prev != 0 {
		a.returns = append(a.returns, value/a.prev-1.0)
	}
	a.prev = value
	a.hasPrev = true
}

func (a *Sharpe) Analysis() map[string]float64 {
	out := map[string]float64{"sharpe_ratio": 0}
	if len(a.returns) < 2 {
		return out
	}
	rfPerBar := a.RiskFreeRate / float64(a.TradingDays)
	excess := make([]float64, len(a.returns))
	for i, r := range a.returns {
		excess[i] = r - rfPerBar
	}
	mean, std := meanStd(excess)
	if std == 0 {
		return out
	}
	ratio := mean / std
	if a.Annualize {
		ratio *= math.Sqrt(float64(a.TradingDays))
	}
	out["sharpe_ratio"] = ratio
	return out
}
