package jsonout

import (
	"errors"
	"testing"
	"time"

	"github.com/quantworks/cerebro/model"
)

func TestBuildRunReport(t *testing.T) {
	entry := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	input := model.RenderRunInput{
		Result: &model.RunResult{
			RunID:       "abc",
			Strategy:    "smacross",
			DataName:    "prices",
			Params:      model.Params{"fast": 10},
			StartCash:   100000,
			EndValue:    105000,
			PnL:         5000,
			PnLPct:      5,
			TotalTrades: 1,
			Trades: []model.TradeRecord{
				{EntryTime: entry, ExitTime: entry.AddDate(0, 0, 2), Size: 10, PnL: 50},
			},
			Analysis: map[string]float64{"sharpe_ratio": 1.1},
			Duration: 2 * time.Second,
		},
		ShowTrades: true,
		Version:    "1.2.3",
	}

	report, err := BuildRunReport(input, "2024-05-02T00:00:00Z")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Strategy != "smacross" || report.Params != "fast=10" {
		t.Errorf("unexpected header fields: %+v", report)
	}
	if report.DurationMs != 2000 {
		t.Errorf("expected 2000ms, got %d", report.DurationMs)
	}
	if len(report.Trades) != 1 || report.Trades[0].EntryTime != "2024-05-01T00:00:00Z" {
		t.Errorf("unexpected trades: %+v", report.Trades)
	}

	input.ShowTrades = false
	report, err = BuildRunReport(input, "2024-05-02T00:00:00Z")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(report.Trades) != 0 {
		t.Error("trades must be omitted unless requested")
	}

	if _, err := BuildRunReport(model.RenderRunInput{}, ""); err == nil {
		t.Error("expected an error without a result")
	}
}

func TestBuildOptReport(t *testing.T) {
	input := model.RenderOptInput{
		Strategy: "smacross",
		DataName: "prices",
		SortBy:   "pnl",
		Total:    3,
		Failed:   1,
		Results: []model.OptResult{
			{Params: model.Params{"fast": 5}, PnLPct: 10, SharpeRatio: 1.5},
			{Params: model.Params{"fast": 9}, Err: errors.New("boom")},
		},
	}

	report := BuildOptReport(input, "2024-05-02T00:00:00Z")
	if report.Total != 3 || report.Failed != 1 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Results))
	}
	if report.Results[0].Params != "fast=5" || report.Results[0].Error != "" {
		t.Errorf("unexpected first entry: %+v", report.Results[0])
	}
	if report.Results[1].Error != "boom" {
		t.Errorf("expected error carried through, got %+v", report.Results[1])
	}
}
