package trends

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/quantworks/cerebro/service/storage"
)

// RenderHistoryTable prints an ASCII table of recent runs.
func RenderHistoryTable(runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "When", "Strategy", "Data", "Params", "End Value", "P&L %", "Trades", "Win %", "Sharpe"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID, r.Timestamp, r.Strategy, r.DataName, r.Params,
			fmt.Sprintf("%.2f", r.EndValue), colorPct(r.PnLPct),
			r.TotalTrades, fmt.Sprintf("%.1f", r.WinRate), fmt.Sprintf("%.2f", r.Sharpe),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderTrendTable prints an ASCII table of per-day strategy trend data.
func RenderTrendTable(points []storage.TrendPoint) {
	if len(points) == 0 {
		fmt.Println("No trend data available")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Strategy", "Date", "Runs", "Best %", "Worst %", "Avg %", "Avg Sharpe"})
	for _, p := range points {
		t.AppendRow(table.Row{
			p.Strategy, p.Date, p.Runs,
			colorPct(p.BestPnL), colorPct(p.WorstPnL), colorPct(p.AvgPnL),
			fmt.Sprintf("%.2f", p.AvgSharpe),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderComparisonTable prints comparison summary for two runs.
func RenderComparisonTable(cmp *storage.RunComparison) {
	if cmp == nil {
		fmt.Println("No comparison data available")
		return
	}
	fmt.Printf("\nRun Comparison (%d -> %d)\n", cmp.First.RunID, cmp.Second.RunID)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"", "Strategy", "Params", "End Value", "P&L %", "Trades", "Sharpe"})
	for _, r := range []storage.RunSummary{cmp.First, cmp.Second} {
		t.AppendRow(table.Row{
			r.RunID, r.Strategy, r.Params,
			fmt.Sprintf("%.2f", r.EndValue), colorPct(r.PnLPct), r.TotalTrades,
			fmt.Sprintf("%.2f", r.Sharpe),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{
		"Δ", "", "",
		fmt.Sprintf("%+.2f", cmp.Second.EndValue-cmp.First.EndValue),
		colorPct(cmp.PnLPctDelta),
		fmt.Sprintf("%+d", cmp.TradeDelta),
		fmt.Sprintf("%+.2f", cmp.SharpeDelta),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func colorPct(v float64) string {
	s := fmt.Sprintf("%.2f%%", v)
	if v > 0 {
		return text.FgGreen.Sprint(s)
	}
	if v < 0 {
		return text.FgRed.Sprint(s)
	}
	return s
}
