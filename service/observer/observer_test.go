package observer

import (
	"math"
	"testing"
)

func TestCashAndValueRecordEveryBar(t *testing.T) {
	cash := NewCash()
	value := NewValue()
	for i := 0; i < 5; i++ {
		cash.NextBar(1000-float64(i), 2000+float64(i))
		value.NextBar(1000-float64(i), 2000+float64(i))
	}
	if got := cash.Lines()[0].Len(); got != 5 {
		t.Errorf("expected 5 cash samples, got %d", got)
	}
	if got := cash.Lines()[0].Get(0); got != 996 {
		t.Errorf("expected latest cash 996, got %v", got)
	}
	if got := value.Lines()[0].Get(0); got != 2004 {
		t.Errorf("expected latest value 2004, got %v", got)
	}
}

func TestDrawDownObserver(t *testing.T) {
	dd := NewDrawDown()
	for _, v := range []float64{1000, 1200, 1080, 1200, 900} {
		dd.NextBar(0, v)
	}
	line := dd.Lines()[0]
	if got := line.Get(0); math.Abs(got-25.0) > 1e-9 {
		t.Errorf("expected 25%% drawdown, got %v", got)
	}
	if got := line.Get(2); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("expected 10%% drawdown two bars back, got %v", got)
	}
	if got := line.Get(3); got != 0 {
		t.Errorf("expected 0 at the peak, got %v", got)
	}
}
