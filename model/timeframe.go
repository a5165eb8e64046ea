package model

import (
	"fmt"
	"strings"
)

// Timeframe identifies the granularity of a bar stream.
type Timeframe int

const (
	TimeframeTicks Timeframe = iota
	TimeframeMinutes
	TimeframeDays
	TimeframeWeeks
	TimeframeMonths
	TimeframeYears
)

// ParseTimeframe parses a timeframe name such as "days" or "minutes".
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tick", "ticks":
		return TimeframeTicks, nil
	case "minute", "minutes", "min":
		return TimeframeMinutes, nil
	case "day", "days", "daily":
		return TimeframeDays, nil
	case "week", "weeks", "weekly":
		return TimeframeWeeks, nil
	case "month", "months", "monthly":
		return TimeframeMonths, nil
	case "year", "years", "yearly":
		return TimeframeYears, nil
	}
	return TimeframeDays, fmt.Errorf("unknown timeframe %q", s)
}

func (t Timeframe) String() string {
	switch t {
	case TimeframeTicks:
		return "ticks"
	case TimeframeMinutes:
		return "minutes"
	case TimeframeDays:
		return "days"
	case TimeframeWeeks:
		return "weeks"
	case TimeframeMonths:
		return "months"
	case TimeframeYears:
		return "years"
	}
	return "unknown"
}
