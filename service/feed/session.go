package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantworks/cerebro/model"
)

// SessionFilter drops bars whose time of day falls outside a trading
// session window. The window is inclusive on both ends.
type SessionFilter struct {
	startMin int
	endMin   int
}

// NewSessionFilter builds a filter from "HH:MM" bounds. An empty bound
// leaves that side of the day open: 00:00 for the start, 23:59 for the
// end.
func NewSessionFilter(start, end string) (*SessionFilter, error) {
	s := 0
	if strings.TrimSpace(start) != "" {
		var err error
		s, err = parseClock(start)
		if err != nil {
			return nil, fmt.Errorf("invalid session start: %w", err)
		}
	}
	e := 23*60 + 59
	if strings.TrimSpace(end) != "" {
		var err error
		e, err = parseClock(end)
		if err != nil {
			return nil, fmt.Errorf("invalid session end: %w", err)
		}
	}
	if e < s {
		return nil, fmt.Errorf("session end %s before start %s", end, start)
	}
	return &SessionFilter{startMin: s, endMin: e}, nil
}

// Keep reports whether the bar falls inside the session.
func (f *SessionFilter) Keep(bar model.Bar) bool {
	tod := bar.Time.Hour()*60 + bar.Time.Minute()
	return tod >= f.startMin && tod <= f.endMin
}

// Apply filters a slice of bars.
func (f *SessionFilter) Apply(bars []model.Bar) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if f.Keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func parseClock(s string) (int, error) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	min, err := strconv.Atoi(m)
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour*60 + min, nil
}
