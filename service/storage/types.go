package storage

import (
	"context"

	"github.com/quantworks/cerebro/model"
)

// Service persists run history in a local SQLite database.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRecentRuns(strategy string, limit int) ([]RunSummary, error)
	GetRun(runID int64) (RunSummary, error)
	GetTrends(strategy string, days int) ([]TrendPoint, error)
	GetRunComparison(runID1, runID2 int64) (*RunComparison, error)
	ListTrades(runID int64) ([]TradeRow, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is one finished run plus its build version.
type SaveRunInput struct {
	Result  *model.RunResult
	Version string
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID       int64
	RunUUID     string
	Strategy    string
	DataName    string
	Params      string
	Timestamp   string
	StartCash   float64
	EndValue    float64
	PnL         float64
	PnLPct      float64
	TotalTrades int
	WinRate     float64
	Sharpe      float64
	MaxDrawdown float64
	Version     string
}

// TrendPoint aggregates the runs of one strategy on one day.
type TrendPoint struct {
	Strategy  string
	Date      string
	Runs      int
	BestPnL   float64
	WorstPnL  float64
	AvgPnL    float64
	AvgSharpe float64
}

// RunComparison contrasts two stored runs.
type RunComparison struct {
	First       RunSummary
	Second      RunSummary
	PnLDelta    float64
	PnLPctDelta float64
	TradeDelta  int
	SharpeDelta float64
}

// TradeRow is one persisted trade of a run.
type TradeRow struct {
	EntryTime  string
	ExitTime   string
	Size       float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	PnLComm    float64
	Commission float64
	BarsHeld   int
}
