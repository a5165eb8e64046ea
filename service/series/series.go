// Package series provides the line buffers that carry time-series values
// through feeds, indicators and observers.
package series

import (
	"math"
	"time"

	"github.com/quantworks/cerebro/model"
)

// Line is an append-only buffer with a logical cursor. Index 0 reads the
// value at the cursor, positive indexes read into the past. Reads outside
// the buffered range return NaN.
type Line struct {
	name      string
	data      []float64
	maxLen    int // 0 means unbounded
	dropped   int // values discarded once maxLen is reached
	cursor    int // absolute index of the current value, -1 before the first advance
	minPeriod int
}

// NewLine creates an unbounded line.
func NewLine(name string) *Line {
	return &Line{name: name, cursor: -1, minPeriod: 1}
}

// NewBoundedLine creates a line that retains at most maxLen values.
func NewBoundedLine(name string, maxLen int) *Line {
	l := NewLine(name)
	if maxLen > 0 {
		l.maxLen = maxLen
	}
	return l
}

// Name returns the line name.
func (l *Line) Name() string { return l.name }

// Push appends a value without moving the cursor. Feeds preload with Push
// and step the cursor separately.
func (l *Line) Push(v float64) {
	l.data = append(l.data, v)
	if l.maxLen > 0 && len(l.data) > l.maxLen {
		copy(l.data, l.data[1:])
		l.data = l.data[:l.maxLen]
		l.dropped++
	}
}

// Append pushes a value and moves the cursor onto it. Indicators stream
// with Append so index 0 always reads the latest output.
func (l *Line) Append(v float64) {
	l.Push(v)
	l.cursor = l.dropped + len(l.data) - 1
}

// Advance moves the cursor one position forward.
func (l *Line) Advance() { l.cursor++ }

// Rewind moves the cursor n positions back.
func (l *Line) Rewind(n int) { l.cursor -= n }

// Home resets the cursor to before the first value. The data is kept.
func (l *Line) Home() { l.cursor = -1 }

// Get reads the value ago positions before the cursor. Out-of-range reads
// return NaN.
func (l *Line) Get(ago int) float64 {
	idx := l.cursor - ago
	if l.cursor < 0 || idx < l.dropped || idx >= l.dropped+len(l.data) {
		return math.NaN()
	}
	return l.data[idx-l.dropped]
}

// Set overwrites the value ago positions before the cursor. Out-of-range
// writes are ignored.
func (l *Line) Set(ago int, v float64) {
	idx := l.cursor - ago
	if l.cursor < 0 || idx < l.dropped || idx >= l.dropped+len(l.data) {
		return
	}
	l.data[idx-l.dropped] = v
}

// Len is the total number of values ever pushed.
func (l *Line) Len() int { return l.dropped + len(l.data) }

// Size is the number of values currently buffered.
func (l *Line) Size() int { return len(l.data) }

// Index is the current cursor position, -1 before the first advance.
func (l *Line) Index() int { return l.cursor }

// MinPeriod returns the warm-up period of the line.
func (l *Line) MinPeriod() int { return l.minPeriod }

// SetMinPeriod sets the warm-up period of the line.
func (l *Line) SetMinPeriod(p int) {
	if p > 0 {
		l.minPeriod = p
	}
}

// UpdateMinPeriod raises the warm-up period, never lowering it.
func (l *Line) UpdateMinPeriod(p int) {
	if p > l.minPeriod {
		l.minPeriod = p
	}
}

// Ready reports whether enough values have passed the cursor to satisfy
// the warm-up period.
func (l *Line) Ready() bool { return l.cursor+1 >= l.minPeriod }

// Values returns a copy of the buffered values in chronological order.
func (l *Line) Values() []float64 {
	out := make([]float64, len(l.data))
	copy(out, l.data)
	return out
}

// Series is an ordered, named collection of lines sharing one cursor.
type Series struct {
	names []string
	lines map[string]*Line
}

// NewSeries creates an empty series.
func NewSeries() *Series {
	return &Series{lines: map[string]*Line{}}
}

// AddLine registers a line under its name. An existing name is replaced.
func (s *Series) AddLine(l *Line) {
	if _, ok := s.lines[l.Name()]; !ok {
		s.names = append(s.names, l.Name())
	}
	s.lines[l.Name()] = l
}

// Line returns the named line, or nil.
func (s *Series) Line(name string) *Line { return s.lines[name] }

// Names returns the line names in registration order.
func (s *Series) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Advance steps every line's cursor forward.
func (s *Series) Advance() {
	for _, name := range s.names {
		s.lines[name].Advance()
	}
}

// Rewind steps every line's cursor n positions back.
func (s *Series) Rewind(n int) {
	for _, name := range s.names {
		s.lines[name].Rewind(n)
	}
}

// Home resets every line's cursor.
func (s *Series) Home() {
	for _, name := range s.names {
		s.lines[name].Home()
	}
}

// Len returns the length of the first line, 0 when empty.
func (s *Series) Len() int {
	if len(s.names) == 0 {
		return 0
	}
	return s.lines[s.names[0]].Len()
}

// MinPeriod is the largest warm-up period over all lines.
func (s *Series) MinPeriod() int {
	min := 1
	for _, name := range s.names {
		if p := s.lines[name].MinPeriod(); p > min {
			min = p
		}
	}
	return min
}

// OHLCV is a series with the standard price and volume lines plus the
// bar timestamps.
type OHLCV struct {
	*Series
	times []time.Time
}

// NewOHLCV creates an OHLCV series with empty lines.
func NewOHLCV() *OHLCV {
	o := &OHLCV{Series: NewSeries()}
	for _, name := range []string{"open", "high", "low", "close", "volume", "openinterest"} {
		o.AddLine(NewLine(name))
	}
	return o
}

func (o *OHLCV) Open() *Line         { return o.Line("open") }
func (o *OHLCV) High() *Line         { return o.Line("high") }
func (o *OHLCV) Low() *Line          { return o.Line("low") }
func (o *OHLCV) Close() *Line        { return o.Line("close") }
func (o *OHLCV) Volume() *Line       { return o.Line("volume") }
func (o *OHLCV) OpenInterest() *Line { return o.Line("openinterest") }

// AddBar pushes one bar onto all lines without moving the cursor.
func (o *OHLCV) AddBar(b model.Bar) {
	o.Open().Push(b.Open)
	o.High().Push(b.High)
	o.Low().Push(b.Low)
	o.Close().Push(b.Close)
	o.Volume().Push(b.Volume)
	o.OpenInterest().Push(b.OpenInterest)
	o.times = append(o.times, b.Time)
}

// DateTime returns the timestamp ago bars before the cursor, the zero time
// when out of range.
func (o *OHLCV) DateTime(ago int) time.Time {
	idx := o.Close().Index() - ago
	if idx < 0 || idx >= len(o.times) {
		return time.Time{}
	}
	return o.times[idx]
}

// TimeAt returns the timestamp at absolute bar index i.
func (o *OHLCV) TimeAt(i int) time.Time {
	if i < 0 || i >= len(o.times) {
		return time.Time{}
	}
	return o.times[i]
}
