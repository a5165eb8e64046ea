package analyzer

import (
	"math"

	"github.com/quantworks/cerebro/service/broker"
)

// SQN is Van Tharp's system quality number over closed trade results:
// sqrt(n) * mean(pnl) / stddev(pnl).
type SQN struct {
	nop
	pnls []float64
}

func NewSQN() *SQN { return &SQN{} }

func (a *SQN) Name() string { return "sqn" }

func (a *SQN) NotifyTrade(tr *broker.Trade) {
	if tr.IsOpen {
		return
	}
	a.pnls = append(a.pnls, tr.PnLComm)
}

func (a *SQN) Analysis() map[string]float64 {
	out := map[string]float64{"sqn": 0, "trades": float64(len(a.pnls))}
	if len(a.pnls) < 2 {
		return out
	}
	mean, std := meanStd(a.pnls)
	if std == 0 {
		return out
	}
	out["sqn"] = math.Sqrt(float64(len(a.pnls))) * mean / std
	return out
}
