// Package optimizer runs concurrent parameter sweeps: it expands a
// parameter grid and executes one backtest per combination with a
// bounded worker pool.
package optimizer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantworks/cerebro/model"
)

// RunFunc executes one backtest for a parameter combination.
type RunFunc func(ctx context.Context, p model.Params) (*model.RunResult, error)

// Service runs sweeps and ranks the results.
type Service interface {
	Run(ctx context.Context, grid *Grid, run RunFunc) ([]model.OptResult, error)
}

// Config tunes the sweep execution.
type Config struct {
	// MaxWorkers caps concurrent runs; 0 means NumCPU.
	MaxWorkers int
	Logger     *zap.Logger
}

// NewService creates an optimizer service.
func NewService(cfg Config) Service {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &service{cfg: cfg}
}

type service struct {
	cfg Config
}

// Run executes every combination. A failed combination is recorded with
// its error instead of aborting the sweep; only context cancellation
// stops it early.
func (s *service) Run(ctx context.Context, grid *Grid, run RunFunc) ([]model.OptResult, error) {
	combos := grid.Expand()
	if len(combos) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}
	s.cfg.Logger.Debug("starting sweep",
		zap.Int("combinations", len(combos)),
		zap.Int("workers", s.cfg.MaxWorkers))

	results := make([]model.OptResult, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxWorkers)

	for i, params := range combos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := run(gctx, params)
			if err != nil {
				results[i] = model.OptResult{Params: params, Err: err}
				return nil
			}
			results[i] = toOptResult(params, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep canceled: %w", err)
	}
	return results, nil
}

func toOptResult(params model.Params, res *model.RunResult) model.OptResult {
	out := model.OptResult{
		Params:      params,
		FinalValue:  res.EndValue,
		PnL:         res.PnL,
		PnLPct:      res.PnLPct,
		TotalTrades: res.TotalTrades,
	}
	out.SharpeRatio = res.Analysis["sharpe_ratio"]
	out.MaxDrawdown = res.Analysis["max_drawdown"]
	out.WinningTrades = int(res.Analysis["won_trades"])
	out.WinRate = res.Analysis["win_rate"]
	return out
}

// Sort orders results best-first by the given key: "pnl", "sharpe",
// "drawdown" (smaller is better), "winrate" or "trades". Failed
// combinations sink to the bottom.
func Sort(results []model.OptResult, key string) {
	less := func(a, b model.OptResult) bool { return a.PnLPct > b.PnLPct }
	switch key {
	case "sharpe":
		less = func(a, b model.OptResult) bool { return a.SharpeRatio > b.SharpeRatio }
	case "drawdown":
		less = func(a, b model.OptResult) bool { return a.MaxDrawdown < b.MaxDrawdown }
	case "winrate":
		less = func(a, b model.OptResult) bool { return a.WinRate > b.WinRate }
	case "trades":
		less = func(a, b model.OptResult) bool { return a.TotalTrades > b.TotalTrades }
	}
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err != nil) != (results[j].Err != nil) {
			return results[i].Err == nil
		}
		return less(results[i], results[j])
	})
}

// TopN returns the best n results for the sort key.
func TopN(results []model.OptResult, key string, n int) []model.OptResult {
	sorted := make([]model.OptResult, len(results))
	copy(sorted, results)
	Sort(sorted, key)
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Sensitivity groups results by one parameter's value and reports the
// mean pnl% per value, exposing how much that parameter matters.
func Sensitivity(results []model.OptResult, param string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v, ok := r.Params[param]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%v", v)
		sums[key] += r.PnLPct
		counts[key]++
	}
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / float64(counts[k])
	}
	return out
}

// Summary aggregates a sweep.
type Summary struct {
	Total    int
	Failed   int
	BestPnL  float64
	WorstPnL float64
	MeanPnL  float64
}

// Summarize computes sweep-level statistics over pnl%.
func Summarize(results []model.OptResult) Summary {
	s := Summary{Total: len(results), BestPnL: math.Inf(-1), WorstPnL: math.Inf(1)}
	var sum float64
	var n int
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		n++
		sum += r.PnLPct
		if r.PnLPct > s.BestPnL {
			s.BestPnL = r.PnLPct
		}
		if r.PnLPct < s.WorstPnL {
			s.WorstPnL = r.PnLPct
		}
	}
	if n == 0 {
		s.BestPnL, s.WorstPnL = 0, 0
		return s
	}
	s.MeanPnL = sum / float64(n)
	return s
}
