package series

import (
	"math"
	"testing"
	"time"

	"github.com/quantworks/cerebro/model"
)

func TestLinePushAndAdvance(t *testing.T) {
	l := NewLine("close")
	l.Push(1.0)
	l.Push(2.0)
	l.Push(3.0)

	if !math.IsNaN(l.Get(0)) {
		t.Fatalf("expected NaN before first advance, got %v", l.Get(0))
	}

	l.Advance()
	if got := l.Get(0); got != 1.0 {
		t.Errorf("expected 1.0 at cursor, got %v", got)
	}
	l.Advance()
	l.Advance()
	if got := l.Get(0); got != 3.0 {
		t.Errorf("expected 3.0 at cursor, got %v", got)
	}
	if got := l.Get(2); got != 1.0 {
		t.Errorf("expected 1.0 two bars back, got %v", got)
	}
	if !math.IsNaN(l.Get(3)) {
		t.Errorf("expected NaN past the start, got %v", l.Get(3))
	}
}

func TestLineAppendMovesCursor(t *testing.T) {
	l := NewLine("sma")
	l.Append(10.0)
	if got := l.Get(0); got != 10.0 {
		t.Fatalf("expected 10.0 at cursor after append, got %v", got)
	}
	l.Append(11.0)
	if got := l.Get(0); got != 11.0 {
		t.Errorf("expected 11.0 at cursor, got %v", got)
	}
	if got := l.Get(1); got != 10.0 {
		t.Errorf("expected 10.0 one back, got %v", got)
	}
}

func TestBoundedLineDropsOldest(t *testing.T) {
	l := NewBoundedLine("close", 3)
	for i := 1; i <= 5; i++ {
		l.Append(float64(i))
	}

	if l.Len() != 5 {
		t.Errorf("expected logical length 5, got %d", l.Len())
	}
	if l.Size() != 3 {
		t.Errorf("expected buffered size 3, got %d", l.Size())
	}
	if got := l.Get(0); got != 5.0 {
		t.Errorf("expected 5.0 at cursor, got %v", got)
	}
	if got := l.Get(2); got != 3.0 {
		t.Errorf("expected 3.0 two back, got %v", got)
	}
	if !math.IsNaN(l.Get(3)) {
		t.Errorf("expected NaN for dropped value, got %v", l.Get(3))
	}
}

func TestLineHomeKeepsData(t *testing.T) {
	l := NewLine("close")
	l.Append(1.0)
	l.Append(2.0)
	l.Home()
	if !math.IsNaN(l.Get(0)) {
		t.Fatalf("expected NaN after home, got %v", l.Get(0))
	}
	l.Advance()
	l.Advance()
	if got := l.Get(0); got != 2.0 {
		t.Errorf("expected replay to reach 2.0, got %v", got)
	}
}

func TestLineMinPeriod(t *testing.T) {
	l := NewLine("rsi")
	l.SetMinPeriod(3)
	l.UpdateMinPeriod(2)
	if l.MinPeriod() != 3 {
		t.Errorf("update must not lower the min period, got %d", l.MinPeriod())
	}
	l.UpdateMinPeriod(5)
	if l.MinPeriod() != 5 {
		t.Errorf("expected min period 5, got %d", l.MinPeriod())
	}

	for i := 0; i < 4; i++ {
		l.Append(1.0)
	}
	if l.Ready() {
		t.Error("line must not be ready before min period bars")
	}
	l.Append(1.0)
	if !l.Ready() {
		t.Error("line must be ready at min period bars")
	}
}

func TestSeriesFanOut(t *testing.T) {
	s := NewSeries()
	a := NewLine("a")
	b := NewLine("b")
	a.SetMinPeriod(2)
	b.SetMinPeriod(7)
	s.AddLine(a)
	s.AddLine(b)

	a.Push(1.0)
	b.Push(10.0)
	s.Advance()

	if got := a.Get(0); got != 1.0 {
		t.Errorf("expected 1.0 on line a, got %v", got)
	}
	if got := b.Get(0); got != 10.0 {
		t.Errorf("expected 10.0 on line b, got %v", got)
	}
	if s.MinPeriod() != 7 {
		t.Errorf("expected series min period 7, got %d", s.MinPeriod())
	}
}

func TestOHLCVAddBar(t *testing.T) {
	o := NewOHLCV()
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	o.AddBar(model.Bar{Time: t0, Open: 10, High: 12, Low: 9, Close: 11, Volume: 1000})
	o.AddBar(model.Bar{Time: t0.AddDate(0, 0, 1), Open: 11, High: 13, Low: 10, Close: 12, Volume: 900})
	o.Advance()
	o.Advance()

	if got := o.Close().Get(0); got != 12 {
		t.Errorf("expected close 12, got %v", got)
	}
	if got := o.Open().Get(1); got != 10 {
		t.Errorf("expected previous open 10, got %v", got)
	}
	if got := o.DateTime(0); !got.Equal(t0.AddDate(0, 0, 1)) {
		t.Errorf("unexpected bar time %v", got)
	}
	if got := o.DateTime(5); !got.IsZero() {
		t.Errorf("expected zero time out of range, got %v", got)
	}
}
