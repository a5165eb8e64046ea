package jsonout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantworks/cerebro/model"
)

// OutputRunJSON outputs a single backtest run as JSON.
func OutputRunJSON(input model.RenderRunInput) error {
	report, err := BuildRunReport(input, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return printJSON(report)
}

// BuildRunReport builds the run JSON report model.
func BuildRunReport(input model.RenderRunInput, generatedAt string) (model.RunReportJSON, error) {
	res := input.Result
	if res == nil {
		return model.RunReportJSON{}, fmt.Errorf("no run result to output")
	}

	report := model.RunReportJSON{
		GeneratedAt: generatedAt,
		Version:     input.Version,
		RunID:       res.RunID,
		Strategy:    res.Strategy,
		Data:        res.DataName,
		Params:      res.Params.String(),
		StartCash:   res.StartCash,
		EndCash:     res.EndCash,
		EndValue:    res.EndValue,
		PnL:         res.PnL,
		PnLPct:      res.PnLPct,
		TotalBars:   res.TotalBars,
		TotalTrades: res.TotalTrades,
		DurationMs:  res.Duration.Milliseconds(),
		Analysis:    res.Analysis,
	}
	if input.ShowTrades {
		report.Trades = mapTrades(res.Trades)
	}
	return report, nil
}

// OutputOptJSON outputs a parameter sweep as JSON.
func OutputOptJSON(input model.RenderOptInput) error {
	return printJSON(BuildOptReport(input, time.Now().UTC().Format(time.RFC3339)))
}

// BuildOptReport builds the optimization JSON report model.
func BuildOptReport(input model.RenderOptInput, generatedAt string) model.OptReportJSON {
	report := model.OptReportJSON{
		GeneratedAt: generatedAt,
		Strategy:    input.Strategy,
		Data:        input.DataName,
		SortBy:      input.SortBy,
		Total:       input.Total,
		Failed:      input.Failed,
		Results:     make([]model.OptEntryJSON, 0, len(input.Results)),
	}
	for _, r := range input.Results {
		entry := model.OptEntryJSON{
			Params:      r.Params.String(),
			FinalValue:  r.FinalValue,
			PnL:         r.PnL,
			PnLPct:      r.PnLPct,
			SharpeRatio: r.SharpeRatio,
			MaxDrawdown: r.MaxDrawdown,
			TotalTrades: r.TotalTrades,
			WinRate:     r.WinRate,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		report.Results = append(report.Results, entry)
	}
	return report
}

func mapTrades(trades []model.TradeRecord) []model.TradeJSON {
	out := make([]model.TradeJSON, 0, len(trades))
	for _, tr := range trades {
		out = append(out, model.TradeJSON{
			EntryTime:  tr.EntryTime.UTC().Format(time.RFC3339),
			ExitTime:   tr.ExitTime.UTC().Format(time.RFC3339),
			Size:       tr.Size,
			EntryPrice: tr.EntryPrice,
			ExitPrice:  tr.ExitPrice,
			PnL:        tr.PnL,
			PnLComm:    tr.PnLComm,
			Commission: tr.Commission,
			BarsHeld:   tr.BarsHeld,
		})
	}
	return out
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
