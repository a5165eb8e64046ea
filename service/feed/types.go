// Package feed loads OHLCV bar streams from CSV files or memory and
// prepares them for the engine (resampling, session filtering).
package feed

import (
	"time"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/series"
)

// Feed is a preloadable bar source stepped one bar at a time.
type Feed interface {
	// Load reads all bars into memory. Must be called before Next.
	Load() error
	// Next pushes the next bar onto the data lines and advances the
	// cursor. It returns false when the stream is exhausted.
	Next() bool
	// Reset rewinds the cursor to before the first bar. Loaded data is kept.
	Reset()
	Name() string
	// Len is the number of loaded bars.
	Len() int
	// Data exposes the OHLCV lines the feed fills.
	Data() *series.OHLCV
	// Bars returns the loaded bars in chronological order.
	Bars() []model.Bar
	// DateTime returns the timestamp of the bar at absolute index i.
	DateTime(i int) time.Time
}

// ColumnMap describes where each field lives in a CSV row. A value of -1
// marks the column as absent.
type ColumnMap struct {
	DateTime     int
	Open         int
	High         int
	Low          int
	Close        int
	Volume       int
	OpenInterest int
}

// BacktraderColumns is the dt,open,high,low,close,volume,openinterest layout.
func BacktraderColumns() ColumnMap {
	return ColumnMap{DateTime: 0, Open: 1, High: 2, Low: 3, Close: 4, Volume: 5, OpenInterest: 6}
}

// YahooColumns is the Yahoo Finance CSV export layout. The adjusted close
// column is skipped and there is no open interest.
func YahooColumns() ColumnMap {
	return ColumnMap{DateTime: 0, Open: 1, High: 2, Low: 3, Close: 4, Volume: 6, OpenInterest: -1}
}

// Options configures CSV parsing.
type Options struct {
	Columns    ColumnMap
	Separator  rune   // default ','
	HeaderRows int    // leading rows to skip
	DateFormat string // Go layout, default "2006-01-02"
}

// DefaultOptions parses the backtrader layout with one header row.
func DefaultOptions() Options {
	return Options{
		Columns:    BacktraderColumns(),
		Separator:  ',',
		HeaderRows: 1,
		DateFormat: "2006-01-02",
	}
}

// PresetOptions returns the options for a named CSV format
// ("generic", "backtrader" or "yahoo").
func PresetOptions(format string) Options {
	opts := DefaultOptions()
	if format == "yahoo" {
		opts.Columns = YahooColumns()
	}
	return opts
}

type baseFeed struct {
	name   string
	bars   []model.Bar
	cursor int
	data   *series.OHLCV
}

func newBaseFeed(name string) baseFeed {
	return baseFeed{name: name, cursor: -1, data: series.NewOHLCV()}
}

func (f *baseFeed) Name() string         { return f.name }
func (f *baseFeed) Len() int             { return len(f.bars) }
func (f *baseFeed) Data() *series.OHLCV  { return f.data }
func (f *baseFeed) Bars() []model.Bar    { return f.bars }

func (f *baseFeed) DateTime(i int) time.Time {
	if i < 0 || i >= len(f.bars) {
		return time.Time{}
	}
	return f.bars[i].Time
}

func (f *baseFeed) Next() bool {
	if f.cursor+1 >= len(f.bars) {
		return false
	}
	f.cursor++
	f.data.AddBar(f.bars[f.cursor])
	f.data.Advance()
	return true
}

func (f *baseFeed) Reset() {
	f.cursor = -1
	f.data = series.NewOHLCV()
}
