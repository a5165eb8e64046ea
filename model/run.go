package model

import "time"

// TradeRecord is a closed round-trip trade as reported after a run.
type TradeRecord struct {
	EntryTime  time.Time
	ExitTime   time.Time
	Size       float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	PnLComm    float64
	Commission float64
	BarsHeld   int
}

// EquityPoint is one sample of the portfolio over time.
type EquityPoint struct {
	Time  time.Time
	Cash  float64
	Value float64
}

// RunResult summarizes a single backtest run.
type RunResult struct {
	RunID       string
	Strategy    string
	DataName    string
	Params      Params
	StartCash   float64
	EndCash     float64
	EndValue    float64
	PnL         float64
	PnLPct      float64
	TotalBars   int
	TotalTrades int
	Trades      []TradeRecord
	Equity      []EquityPoint
	Analysis    map[string]float64
	Duration    time.Duration
}

// OptResult is the outcome of one parameter combination in a sweep.
type OptResult struct {
	Params        Params
	FinalValue    float64
	PnL           float64
	PnLPct        float64
	SharpeRatio   float64
	MaxDrawdown   float64
	TotalTrades   int
	WinningTrades int
	WinRate       float64
	Err           error
}
