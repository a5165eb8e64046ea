package analyzer

import (
	"github.com/quantworks/cerebro/service/broker"
)

// profitFactorCap stands in for an infinite profit factor when there are
// no losing trades.
const profitFactorCap = 999.99

// TradeStats aggregates closed-trade statistics: counts, win rate,
// profit factor and streaks.
type TradeStats struct {
	nop
	total      int
	won        int
	lost       int
	grossWin   float64
	grossLoss  float64
	netTotal   float64
	winStreak  int
	lossStreak int
	maxWin     int
	maxLoss    int
}

func NewTradeStats() *TradeStats { return &TradeStats{} }

func (a *TradeStats) Name() string { return "trades" }

func (a *TradeStats) NotifyTrade(tr *broker.Trade) {
	if tr.IsOpen {
		return
	}
	a.total++
	a.netTotal += tr.PnLComm
	if tr.PnLComm > 0 {
		a.won++
		a.grossWin += tr.PnLComm
		a.winStreak++
		a.lossStreak = 0
		if a.winStreak > a.maxWin {
			a.maxWin = a.winStreak
		}
		return
	}
	a.lost++
	a.grossLoss += -tr.PnLComm
	a.lossStreak++
	a.winStreak = 0
	if a.lossStreak > a.maxLoss {
		a.maxLoss = a.lossStreak
	}
}

func (a *TradeStats) Analysis() map[string]float64 {
	out := map[string]float64{
		"total_trades":    float64(a.total),
		"won_trades":      float64(a.won),
		"lost_trades":     float64(a.lost),
		"gross_profit":    a.grossWin,
		"gross_loss":      a.grossLoss,
		"win_rate":        0,
		"avg_trade":       0,
		"profit_factor":   0,
		"max_win_streak":  float64(a.maxWin),
		"max_loss_streak": float64(a.maxLoss),
	}
	if a.total == 0 {
		return out
	}
	out["win_rate"] = float64(a.won) / float64(a.total) * 100.0
	out["avg_trade"] = a.netTotal / float64(a.total)
	if a.grossLoss > 0 {
		out["profit_factor"] = a.grossWin / a.grossLoss
	} else if a.grossWin > 0 {
		out["profit_factor"] = profitFactorCap
	}
	return out
}
