package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantworks/cerebro/model"
)

// CSVFeed loads bars from a CSV file with a configurable column layout.
type CSVFeed struct {
	baseFeed
	path string
	opts Options
}

// NewCSV creates a CSV feed for the given file. The feed name is the file
// name without its extension.
func NewCSV(path string, opts Options) *CSVFeed {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02"
	}
	return &CSVFeed{baseFeed: newBaseFeed(name), path: path, opts: opts}
}

// Load parses the file. Malformed rows are skipped; a file that yields no
// bars at all is an error.
func (f *CSVFeed) Load() error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = f.opts.Separator
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(records) > f.opts.HeaderRows {
		records = records[f.opts.HeaderRows:]
	} else {
		records = nil
	}

	f.bars = f.bars[:0]
	for _, record := range records {
		bar, ok := parseRow(record, f.opts)
		if !ok {
			continue
		}
		f.bars = append(f.bars, bar)
	}
	if len(f.bars) == 0 {
		return fmt.Errorf("no valid bars in %s", f.path)
	}
	return nil
}

func parseRow(record []string, opts Options) (model.Bar, bool) {
	var bar model.Bar
	cols := opts.Columns
	if len(record) <= maxColumn(cols) {
		return bar, false
	}

	t, err := parseDate(record[cols.DateTime], opts.DateFormat)
	if err != nil {
		return bar, false
	}
	bar.Time = t

	if bar.Open, err = parseField(record[cols.Open]); err != nil {
		return bar, false
	}
	if bar.High, err = parseField(record[cols.High]); err != nil {
		return bar, false
	}
	if bar.Low, err = parseField(record[cols.Low]); err != nil {
		return bar, false
	}
	if bar.Close, err = parseField(record[cols.Close]); err != nil {
		return bar, false
	}
	if cols.Volume >= 0 {
		if bar.Volume, err = parseField(record[cols.Volume]); err != nil {
			return bar, false
		}
	}
	if cols.OpenInterest >= 0 {
		if bar.OpenInterest, err = parseField(record[cols.OpenInterest]); err != nil {
			return bar, false
		}
	}
	return bar, true
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseDate accepts the configured layout first and falls back to common
// datetime layouts so intraday files work without extra flags.
func parseDate(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(layout, s); err == nil {
		return t, nil
	}
	for _, alt := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if alt == layout {
			continue
		}
		if t, err := time.Parse(alt, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func maxColumn(c ColumnMap) int {
	max := c.DateTime
	for _, v := range []int{c.Open, c.High, c.Low, c.Close, c.Volume, c.OpenInterest} {
		if v > max {
			max = v
		}
	}
	return max
}
