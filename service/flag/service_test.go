package flag

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
)

func resetFlagState(t *testing.T, args []string) func() {
	t.Helper()
	oldCommandLine := pflag.CommandLine
	oldArgs := os.Args
	pflag.CommandLine = pflag.NewFlagSet("test", pflag.ContinueOnError)
	os.Args = append([]string{"cerebro"}, args...)
	return func() {
		pflag.CommandLine = oldCommandLine
		os.Args = oldArgs
	}
}

func TestGetParsedFlagsAllOptions(t *testing.T) {
	cleanup := resetFlagState(t, []string{
		"--data", "prices.csv",
		"--format", "yahoo",
		"--date-format", "2006-01-02",
		"--strategy", "rsirevert",
		"--param", "period=14",
		"--param", "lower=25",
		"--cash", "50000",
		"--commission", "0.001",
		"--margin", "2000",
		"--mult", "10",
		"--stake", "5",
		"--sizer", "percent",
		"--percent", "30",
		"--slip-perc", "0.01",
		"--slip-fixed", "0.05",
		"--cheat-on-close",
		"--timeframe", "weeks",
		"--compression", "2",
		"--session-start", "09:30",
		"--session-end", "16:00",
		"--optimize",
		"--opt-param", "fast=5:15:5",
		"--opt-param", "slow=20:40:10",
		"--sort-by", "sharpe",
		"--top", "3",
		"--max-cpu", "2",
		"--output", "json",
		"--export-trades", "trades.csv",
		"--export-equity", "equity.csv",
		"--verbose",
		"--store",
		"--db-path", "/tmp/history.db",
		"--trends",
		"--trend-days", "15",
		"--compare",
		"--config-path", "/tmp/config.yaml",
	})
	defer cleanup()

	svc := NewService()
	flags, err := svc.GetParsedFlags()
	if err != nil {
		t.Fatalf("GetParsedFlags failed: %v", err)
	}

	if flags.Data != "prices.csv" || flags.Format != "yahoo" || flags.DateFormat != "2006-01-02" {
		t.Fatalf("unexpected data flags: %+v", flags)
	}
	if flags.Strategy != "rsirevert" || len(flags.Params) != 2 || flags.Params[1] != "lower=25" {
		t.Fatalf("unexpected strategy flags: %+v", flags)
	}
	if flags.Cash != 50000 || flags.Commission != 0.001 || flags.Margin != 2000 || flags.Mult != 10 {
		t.Fatalf("unexpected broker flags: %+v", flags)
	}
	if flags.Stake != 5 || flags.Sizer != "percent" || flags.Percent != 30 {
		t.Fatalf("unexpected sizer flags: %+v", flags)
	}
	if flags.SlipPerc != 0.01 || flags.SlipFixed != 0.05 || !flags.CheatOnClose {
		t.Fatalf("unexpected execution flags: %+v", flags)
	}
	if flags.Timeframe != "weeks" || flags.Compression != 2 {
		t.Fatalf("unexpected resample flags: %+v", flags)
	}
	if flags.SessionStart != "09:30" || flags.SessionEnd != "16:00" {
		t.Fatalf("unexpected session flags: %+v", flags)
	}
	if !flags.Optimize || len(flags.OptParams) != 2 || flags.SortBy != "sharpe" || flags.Top != 3 || flags.MaxCPU != 2 {
		t.Fatalf("unexpected optimize flags: %+v", flags)
	}
	if flags.Output != "json" || flags.ExportTrades != "trades.csv" || flags.ExportEquity != "equity.csv" || !flags.Verbose {
		t.Fatalf("unexpected output flags: %+v", flags)
	}
	if !flags.Store || flags.DBPath != "/tmp/history.db" || !flags.Trends || flags.TrendDays != 15 || !flags.Compare {
		t.Fatalf("unexpected storage flags: %+v", flags)
	}
	if flags.ConfigPath != "/tmp/config.yaml" {
		t.Fatalf("unexpected config path: %+v", flags)
	}

	if !svc.Changed("cash") {
		t.Error("expected cash to be marked as changed")
	}
	if svc.Changed("stake") && flags.Stake != 5 {
		t.Error("unexpected changed state for stake")
	}
}

func TestGetParsedFlagsDefaults(t *testing.T) {
	cleanup := resetFlagState(t, nil)
	defer cleanup()

	svc := NewService()
	flags, err := svc.GetParsedFlags()
	if err != nil {
		t.Fatalf("GetParsedFlags failed: %v", err)
	}

	if flags.Strategy != "smacross" || flags.Format != "backtrader" {
		t.Fatalf("unexpected defaults: %+v", flags)
	}
	if flags.Cash != 100000 || flags.Mult != 1 || flags.Stake != 1 {
		t.Fatalf("unexpected broker defaults: %+v", flags)
	}
	if flags.Sizer != "fixed" || flags.Percent != 20 {
		t.Fatalf("unexpected sizer defaults: %+v", flags)
	}
	if flags.Output != "table" || flags.SortBy != "pnl" || flags.Top != 10 || flags.TrendDays != 30 {
		t.Fatalf("unexpected output defaults: %+v", flags)
	}
	if flags.Optimize || flags.Store || flags.Verbose || flags.CheatOnClose {
		t.Fatalf("unexpected bool defaults: %+v", flags)
	}
	if svc.Changed("cash") {
		t.Error("cash must not be marked as changed by default")
	}
}
