package model

// RenderRunInput carries one finished run to the output layer.
type RenderRunInput struct {
	Result     *RunResult
	ShowTrades bool
	Version    string
}

// RenderOptInput carries a finished parameter sweep to the output layer.
type RenderOptInput struct {
	Strategy string
	DataName string
	SortBy   string
	Total    int
	Failed   int
	Results  []OptResult
}

// RunReportJSON is the JSON shape of a single run.
type RunReportJSON struct {
	GeneratedAt string             `json:"generated_at"`
	Version     string             `json:"version,omitempty"`
	RunID       string             `json:"run_id"`
	Strategy    string             `json:"strategy"`
	Data        string             `json:"data"`
	Params      string             `json:"params"`
	StartCash   float64            `json:"start_cash"`
	EndCash     float64            `json:"end_cash"`
	EndValue    float64            `json:"end_value"`
	PnL         float64            `json:"pnl"`
	PnLPct      float64            `json:"pnl_pct"`
	TotalBars   int                `json:"total_bars"`
	TotalTrades int                `json:"total_trades"`
	DurationMs  int64              `json:"duration_ms"`
	Analysis    map[string]float64 `json:"analysis"`
	Trades      []TradeJSON        `json:"trades,omitempty"`
}

// TradeJSON is one closed trade in JSON output.
type TradeJSON struct {
	EntryTime  string  `json:"entry_time"`
	ExitTime   string  `json:"exit_time"`
	Size       float64 `json:"size"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	PnL        float64 `json:"pnl"`
	PnLComm    float64 `json:"pnl_comm"`
	Commission float64 `json:"commission"`
	BarsHeld   int     `json:"bars_held"`
}

// OptReportJSON is the JSON shape of a parameter sweep.
type OptReportJSON struct {
	GeneratedAt string         `json:"generated_at"`
	Strategy    string         `json:"strategy"`
	Data        string         `json:"data"`
	SortBy      string         `json:"sort_by"`
	Total       int            `json:"total_combinations"`
	Failed      int            `json:"failed_combinations"`
	Results     []OptEntryJSON `json:"results"`
}

// OptEntryJSON is one parameter combination in JSON output.
type OptEntryJSON struct {
	Params      string  `json:"params"`
	FinalValue  float64 `json:"final_value"`
	PnL         float64 `json:"pnl"`
	PnLPct      float64 `json:"pnl_pct"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
	TotalTrades int     `json:"total_trades"`
	WinRate     float64 `json:"win_rate"`
	Error       string  `json:"error,omitempty"`
}
