package ighist

import (
	"fmt"
	"testing"
	"time"
)

// stubPriceSource serves canned bars and counts fetches per instrument.
type stubPriceSource struct {
	bars  map[string][]PriceBar
	err   error
	calls map[string]int
}

func (s *stubPriceSource) LoadPriceHistory(instrument string, from, to time.Time) ([]PriceBar, error) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[instrument]++
	if s.err != nil {
		return nil, s.err
	}
	return s.bars[instrument], nil
}

func dailyBar(d time.Time, low, high float64) PriceBar {
	return PriceBar{
		Start: d,
		End:   d.Add(Day),
		Open:  newDecimal(low),
		High:  newDecimal(high),
		Low:   newDecimal(low),
		Close: newDecimal(high),
	}
}

func TestPriceCache_EffectivePrice(t *testing.T) {
	src := &stubPriceSource{bars: map[string][]PriceBar{
		"AMD": {
			dailyBar(day(2020, time.June, 15), 9, 11),
			dailyBar(day(2020, time.June, 16), 10, 12),
		},
	}}
	cache := NewPriceCache(src, day(2020, time.June, 1), day(2020, time.June, 30))

	t.Run("before any bar", func(t *testing.T) {
		if _, ok := cache.EffectivePrice("AMD", day(2020, time.June, 14)); ok {
			t.Error("EffectivePrice() ok = true before the first bar")
		}
	})

	t.Run("exact bar start", func(t *testing.T) {
		bar, ok := cache.EffectivePrice("AMD", day(2020, time.June, 15))
		if !ok {
			t.Fatal("EffectivePrice() ok = false")
		}
		if !bar.Start.Equal(day(2020, time.June, 15)) {
			t.Errorf("bar.Start = %v, want June 15", bar.Start)
		}
	})

	t.Run("between bars uses the last one", func(t *testing.T) {
		bar, ok := cache.EffectivePrice("AMD", day(2020, time.June, 20))
		if !ok {
			t.Fatal("EffectivePrice() ok = false")
		}
		if !bar.Start.Equal(day(2020, time.June, 16)) {
			t.Errorf("bar.Start = %v, want June 16", bar.Start)
		}
	})

	if src.calls["AMD"] != 1 {
		t.Errorf("LoadPriceHistory called %d times, want 1", src.calls["AMD"])
	}
}

func TestPriceCache_MemoizesFailures(t *testing.T) {
	src := &stubPriceSource{err: fmt.Errorf("delisted")}
	cache := NewPriceCache(src, day(2020, time.June, 1), day(2020, time.June, 30))

	for i := 0; i < 3; i++ {
		if _, ok := cache.EffectivePrice("GONE", day(2020, time.June, 15)); ok {
			t.Fatal("EffectivePrice() ok = true for a failing instrument")
		}
	}
	if src.calls["GONE"] != 1 {
		t.Errorf("LoadPriceHistory called %d times, want 1", src.calls["GONE"])
	}
}
