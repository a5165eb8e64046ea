package flag

import (
	"github.com/spf13/pflag"

	"github.com/quantworks/cerebro/model"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags.
func (s *service) GetParsedFlags() (model.Flags, error) {
	data := pflag.StringP("data", "d", "", "Path to the OHLCV CSV file")
	format := pflag.String("format", "backtrader", "CSV column layout (backtrader or yahoo)")
	dateFormat := pflag.String("date-format", "", "Override date layout, Go reference time syntax")
	strategy := pflag.StringP("strategy", "s", "smacross", "Strategy to run")
	params := pflag.StringArrayP("param", "p", nil, "Strategy parameter name=value (repeatable)")
	cash := pflag.Float64("cash", 100000, "Starting cash")
	commission := pflag.Float64("commission", 0, "Commission rate (fraction, e.g. 0.001)")
	margin := pflag.Float64("margin", 0, "Margin per contract for futures-like instruments")
	mult := pflag.Float64("mult", 1, "Contract multiplier")
	stake := pflag.Float64("stake", 1, "Fixed stake size")
	sizer := pflag.String("sizer", "fixed", "Position sizer (fixed, percent or allin)")
	percent := pflag.Float64("percent", 20, "Cash percent per trade for the percent sizer")
	slipPerc := pflag.Float64("slip-perc", 0, "Percentage slippage per fill")
	slipFixed := pflag.Float64("slip-fixed", 0, "Fixed slippage per fill")
	cheatOnClose := pflag.Bool("cheat-on-close", false, "Fill market orders on the bar close that generated them")
	timeframe := pflag.String("timeframe", "", "Resample to timeframe (minutes, days, weeks, months, years)")
	compression := pflag.Int("compression", 1, "Bars per resampled period")
	sessionStart := pflag.String("session-start", "", "Drop bars before HH:MM")
	sessionEnd := pflag.String("session-end", "", "Drop bars after HH:MM")

	optimize := pflag.Bool("optimize", false, "Run a parameter sweep instead of a single backtest")
	optParams := pflag.StringArray("opt-param", nil, "Sweep dimension name=start:end:step or name=a,b,c (repeatable)")
	sortBy := pflag.String("sort-by", "pnl", "Sweep ranking key (pnl, sharpe, drawdown, winrate, trades)")
	top := pflag.Int("top", 10, "Number of sweep results to display")
	maxCPU := pflag.Int("max-cpu", 0, "Sweep worker limit (0 = all cores)")

	version := pflag.BoolP("version", "v", false, "Show version information")
	listStrategies := pflag.Bool("list-strategies", false, "List registered strategies")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	exportTrades := pflag.String("export-trades", "", "Export closed trades as CSV to file path")
	exportEquity := pflag.String("export-equity", "", "Export the equity curve as CSV to file path")
	verbose := pflag.Bool("verbose", false, "Enable debug logging")

	store := pflag.Bool("store", false, "Persist the run in the local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.cerebro/history.db)")
	trends := pflag.Bool("trends", false, "Show historical trends from stored runs")
	trendDays := pflag.Int("trend-days", 30, "Number of days for trend analysis")
	compare := pflag.Bool("compare", false, "Compare the two most recent stored runs")
	configPath := pflag.String("config-path", "", "Path to cerebro profile file")

	pflag.Parse()

	flags := model.Flags{
		Data:         *data,
		Format:       *format,
		DateFormat:   *dateFormat,
		Strategy:     *strategy,
		Params:       *params,
		Cash:         *cash,
		Commission:   *commission,
		Margin:       *margin,
		Mult:         *mult,
		Stake:        *stake,
		Sizer:        *sizer,
		Percent:      *percent,
		SlipPerc:     *slipPerc,
		SlipFixed:    *slipFixed,
		CheatOnClose: *cheatOnClose,
		Timeframe:    *timeframe,
		Compression:  *compression,
		SessionStart: *sessionStart,
		SessionEnd:   *sessionEnd,

		Optimize:  *optimize,
		OptParams: *optParams,
		SortBy:    *sortBy,
		Top:       *top,
		MaxCPU:    *maxCPU,

		Version:        *version,
		ListStrategies: *listStrategies,
		Output:         *output,
		ExportTrades:   *exportTrades,
		ExportEquity:   *exportEquity,
		Verbose:        *verbose,

		Store:      *store,
		DBPath:     *dbPath,
		Trends:     *trends,
		TrendDays:  *trendDays,
		Compare:    *compare,
		ConfigPath: *configPath,
	}

	return flags, nil
}

// Changed reports whether the named flag was set on the command line.
func (s *service) Changed(name string) bool {
	return pflag.CommandLine.Changed(name)
}
