package feed

import (
	"time"

	"github.com/quantworks/cerebro/model"
)

// Resampler compresses a bar stream into a larger timeframe. Bars in the
// same period merge with first open, max high, min low, last close and
// summed volume.
type Resampler struct {
	Timeframe   model.Timeframe
	Compression int
	// RightEdge stamps emitted bars with the end of their period instead
	// of the time of the last source bar.
	RightEdge bool

	pending    model.Bar
	hasPending bool
	period     int64
	ticks      int64
}

// NewResampler creates a resampler. Compression below 1 is treated as 1.
func NewResampler(tf model.Timeframe, compression int) *Resampler {
	if compression < 1 {
		compression = 1
	}
	return &Resampler{Timeframe: tf, Compression: compression}
}

// Next feeds one source bar. When the bar opens a new period the completed
// previous bar is returned with ok=true.
func (r *Resampler) Next(bar model.Bar) (model.Bar, bool) {
	period := r.periodOf(bar.Time)

	if !r.hasPending {
		r.pending = bar
		r.hasPending = true
		r.period = period
		return model.Bar{}, false
	}

	if period == r.period {
		r.merge(bar)
		return model.Bar{}, false
	}

	done := r.finish()
	r.pending = bar
	r.hasPending = true
	r.period = period
	return done, true
}

// Flush returns the trailing partial bar, if any.
func (r *Resampler) Flush() (model.Bar, bool) {
	if !r.hasPending {
		return model.Bar{}, false
	}
	done := r.finish()
	r.hasPending = false
	return done, true
}

// Apply resamples a whole slice, including the trailing partial bar.
func (r *Resampler) Apply(bars []model.Bar) []model.Bar {
	var out []model.Bar
	for _, b := range bars {
		if done, ok := r.Next(b); ok {
			out = append(out, done)
		}
	}
	if done, ok := r.Flush(); ok {
		out = append(out, done)
	}
	return out
}

func (r *Resampler) merge(bar model.Bar) {
	if bar.High > r.pending.High {
		r.pending.High = bar.High
	}
	if bar.Low < r.pending.Low {
		r.pending.Low = bar.Low
	}
	r.pending.Close = bar.Close
	r.pending.Volume += bar.Volume
	r.pending.OpenInterest = bar.OpenInterest
	r.pending.Time = bar.Time
}

func (r *Resampler) finish() model.Bar {
	done := r.pending
	if r.RightEdge {
		done.Time = r.periodEnd(done.Time)
	}
	return done
}

// periodOf maps a bar time onto a serial period number so that calendar
// boundaries (ISO-style Monday weeks, real month and year ends) close
// bars, not fixed day counts.
func (r *Resampler) periodOf(t time.Time) int64 {
	comp := int64(r.Compression)
	switch r.Timeframe {
	case model.TimeframeTicks:
		p := r.ticks / comp
		r.ticks++
		return p
	case model.TimeframeMinutes:
		return t.Unix() / 60 / comp
	case model.TimeframeDays:
		return epochDay(t) / comp
	case model.TimeframeWeeks:
		// epoch day 0 is a Thursday; +3 aligns week starts to Monday
		return (epochDay(t) + 3) / 7 / comp
	case model.TimeframeMonths:
		return (int64(t.Year())*12 + int64(t.Month()) - 1) / comp
	case model.TimeframeYears:
		return int64(t.Year()) / comp
	}
	return epochDay(t) / comp
}

func (r *Resampler) periodEnd(t time.Time) time.Time {
	switch r.Timeframe {
	case model.TimeframeMinutes:
		step := time.Duration(r.Compression) * time.Minute
		return t.Truncate(step).Add(step)
	case model.TimeframeWeeks:
		// forward to Sunday
		days := (7 - int(t.Weekday())) % 7
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, days)
	case model.TimeframeMonths:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return first.AddDate(0, 1, -1)
	case model.TimeframeYears:
		return time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location())
	}
	return t
}

func epochDay(t time.Time) int64 {
	return t.Unix() / 86400
}
