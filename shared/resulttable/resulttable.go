// Package resulttable provides table renderers for backtest and optimization results.
package resulttable

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/quantworks/cerebro/model"
)

// DrawRunTable renders a single backtest run.
func DrawRunTable(input model.RenderRunInput) {
	res := input.Result
	if res == nil {
		fmt.Println("No result to display")
		return
	}

	fmt.Printf("\n📊 Backtest Report - %s on %s\n", res.Strategy, res.DataName)
	if len(res.Params) > 0 {
		fmt.Printf("   Params: %s\n", res.Params.String())
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Starting Cash", formatMoney(res.StartCash)})
	t.AppendRow(table.Row{"Final Value", formatMoney(res.EndValue)})
	t.AppendRow(table.Row{"Net P&L", colorMoney(res.PnL)})
	t.AppendRow(table.Row{"Return %", colorPct(res.PnLPct)})
	t.AppendRow(table.Row{"Bars Processed", res.TotalBars})
	t.AppendRow(table.Row{"Closed Trades", res.TotalTrades})
	t.AppendRow(table.Row{"Elapsed", res.Duration.Round(time.Millisecond)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(res.Analysis) > 0 {
		drawAnalysisTable(res.Analysis)
	}
	if input.ShowTrades && len(res.Trades) > 0 {
		drawTradesTable(res.Trades)
	}
}

func drawAnalysisTable(analysis map[string]float64) {
	fmt.Println("\n" + text.FgCyan.Sprint("🔍 Analyzers"))
	keys := make([]string, 0, len(analysis))
	for k := range analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Analyzer", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, fmt.Sprintf("%.4f", analysis[k])})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawTradesTable(trades []model.TradeRecord) {
	fmt.Println("\n" + text.FgCyan.Sprint("💱 Closed Trades"))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Entry", "Exit", "Size", "Entry Px", "Exit Px", "P&L", "Net P&L", "Bars"})
	for i, tr := range trades {
		t.AppendRow(table.Row{
			i + 1,
			tr.EntryTime.Format("2006-01-02"),
			tr.ExitTime.Format("2006-01-02"),
			tr.Size,
			fmt.Sprintf("%.2f", tr.EntryPrice),
			fmt.Sprintf("%.2f", tr.ExitPrice),
			colorMoney(tr.PnL),
			colorMoney(tr.PnLComm),
			tr.BarsHeld,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// DrawOptTable renders the ranked results of a parameter sweep.
func DrawOptTable(input model.RenderOptInput) {
	fmt.Printf("\n🧪 Optimization Report - %s on %s (sorted by %s)\n",
		input.Strategy, input.DataName, input.SortBy)
	fmt.Printf("   Combinations: %d total, %d failed\n", input.Total, input.Failed)

	if len(input.Results) == 0 {
		fmt.Println(text.FgYellow.Sprint("\nNo successful combinations"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Rank", "Params", "Final Value", "P&L %", "Sharpe", "Max DD %", "Trades", "Win %"})
	for i, r := range input.Results {
		if r.Err != nil {
			t.AppendRow(table.Row{i + 1, truncate(r.Params.String(), 40), "-", text.FgRed.Sprint("failed"), "-", "-", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{
			i + 1,
			truncate(r.Params.String(), 40),
			formatMoney(r.FinalValue),
			colorPct(r.PnLPct),
			fmt.Sprintf("%.2f", r.SharpeRatio),
			fmt.Sprintf("%.2f", r.MaxDrawdown),
			r.TotalTrades,
			fmt.Sprintf("%.1f", r.WinRate),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// DrawSensitivityTable renders mean return grouped by one parameter's values.
func DrawSensitivityTable(param string, sensitivity map[string]float64) {
	if len(sensitivity) == 0 {
		return
	}
	fmt.Println("\n" + text.FgCyan.Sprintf("📈 Sensitivity: %s", param))

	values := make([]string, 0, len(sensitivity))
	for v := range sensitivity {
		values = append(values, v)
	}
	sort.Strings(values)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Value", "Mean Return %"})
	for _, v := range values {
		t.AppendRow(table.Row{v, colorPct(sensitivity[v])})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func colorMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v > 0 {
		return text.FgGreen.Sprint(s)
	}
	if v < 0 {
		return text.FgRed.Sprint(s)
	}
	return s
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
