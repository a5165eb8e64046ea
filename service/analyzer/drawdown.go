package analyzer

import "time"

// DrawDown tracks current and maximum drawdown of the portfolio value,
// in percent, money and bars.
type DrawDown struct {
	nop
	peak      float64
	dd        float64
	moneyDown float64
	length    int
	maxDD     float64
	maxMoney  float64
	maxLen    int
}

func NewDrawDown() *DrawDown { return &DrawDown{} }

func (a *DrawDown) Name() string { return "drawdown" }

func (a *DrawDown) Start(startCash float64) {
	a.peak = startCash
}

func (a *DrawDown) NextBar(_ time.Time, _, value float64) {
	if value >= a.peak {
		a.peak = value
		a.dd = 0
		a.moneyDown = 0
		a.length = 0
		return
	}
	a.moneyDown = a.peak - value
	if a.peak > 0 {
		a.dd = a.moneyDown / a.peak * 100.0
	}
	a.length++
	if a.dd > a.maxDD {
		a.maxDD = a.dd
	}
	if a.moneyDown > a.maxMoney {
		a.maxMoney = a.moneyDown
	}
	if a.length > a.maxLen {
		a.maxLen = a.length
	}
}

func (a *DrawDown) Analysis() map[string]float64 {
	return map[string]float64{
		"max_drawdown":  a.maxDD,
		"max_moneydown": a.maxMoney,
		"drawdown":      a.dd,
		"moneydown":     a.moneyDown,
		"len":           float64(a.length),
		"max_len":       float64(a.maxLen),
	}
}
