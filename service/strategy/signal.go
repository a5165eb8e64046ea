package strategy

import (
	"math"

	"github.com/quantworks/cerebro/service/series"
)

// SignalType tells the signal strategy how to interpret a signal line.
// Plain kinds fire on positive values, Inv kinds on negative values and
// Any kinds on any non-zero value.
type SignalType int

const (
	SignalNone SignalType = iota
	// SignalLongShort goes long on positive and short on negative values.
	SignalLongShort
	SignalLong
	SignalLongInv
	SignalLongAny
	SignalShort
	SignalShortInv
	SignalShortAny
	SignalLongExit
	SignalLongExitInv
	SignalLongExitAny
	SignalShortExit
	SignalShortExitInv
	SignalShortExitAny
)

// Signal binds a signal type to the line it reads.
type Signal struct {
	Type SignalType
	Line *series.Line
}

// Fired reports whether the signal is active this bar, per its kind's
// sign rule.
func (s Signal) Fired() bool {
	v := s.Line.Get(0)
	if math.IsNaN(v) {
		return false
	}
	switch s.Type {
	case SignalLong, SignalShort, SignalLongExit, SignalShortExit:
		return v > 0
	case SignalLongInv, SignalShortInv, SignalLongExitInv, SignalShortExitInv:
		return v < 0
	case SignalLongAny, SignalShortAny, SignalLongExitAny, SignalShortExitAny:
		return v != 0
	case SignalLongShort:
		return v != 0
	}
	return false
}

// SignalStrategy trades purely from registered signals.
type SignalStrategy struct {
	Base
	signals []Signal
}

// NewSignalStrategy creates an empty signal strategy; add signals before
// the run starts.
func NewSignalStrategy() *SignalStrategy {
	return &SignalStrategy{}
}

// AddSignal registers a signal.
func (s *SignalStrategy) AddSignal(typ SignalType, line *series.Line) {
	s.signals = append(s.signals, Signal{Type: typ, Line: line})
}

func (s *SignalStrategy) Next() {
	pos := s.Position().Size

	var enterLong, enterShort, exitLong, exitShort bool
	for _, sig := range s.signals {
		if !sig.Fired() {
			continue
		}
		switch sig.Type {
		case SignalLongShort:
			if sig.Line.Get(0) > 0 {
				enterLong = true
				exitShort = true
			} else {
				enterShort = true
				exitLong = true
			}
		case SignalLong, SignalLongInv, SignalLongAny:
			enterLong = true
		case SignalShort, SignalShortInv, SignalShortAny:
			enterShort = true
		case SignalLongExit, SignalLongExitInv, SignalLongExitAny:
			exitLong = true
		case SignalShortExit, SignalShortExitInv, SignalShortExitAny:
			exitShort = true
		}
	}

	if pos > 0 && exitLong {
		s.Close()
		pos = 0
	}
	if pos < 0 && exitShort {
		s.Close()
		pos = 0
	}
	if pos == 0 {
		if enterLong {
			s.Buy()
		} else if enterShort {
			s.Sell()
		}
	}
}
