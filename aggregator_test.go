package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mkBar(symbol string, minuteOffset int, o, h, l, c float64, vol int64) Bar {
	return Bar{
		Symbol:    symbol,
		Timestamp: time.Date(2026, 1, 1, 9, 30+minuteOffset, 0, 0, time.UTC),
		Open:      decimal.NewFromFloat(o),
		High:      decimal.NewFromFloat(h),
		Low:       decimal.NewFromFloat(l),
		Close:     decimal.NewFromFloat(c),
		Volume:    vol,
	}
}

func TestBarAggregatorFoldsAtTimeframeBoundary(t *testing.T) {
	agg := NewBarAggregator(3, 10)

	if agg.Add(mkBar("AAPL", 0, 10, 11, 9, 10.5, 100)) {
		t.Fatalf("expected no fold on first bar")
	}
	if agg.Add(mkBar("AAPL", 1, 10.5, 12, 10, 11, 150)) {
		t.Fatalf("expected no fold on second bar")
	}
	if !agg.Add(mkBar("AAPL", 2, 11, 11.5, 10.8, 11.2, 200)) {
		t.Fatalf("expected fold on third bar")
	}

	history := agg.SnapshotHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(history))
	}
	c := history[0]
	if !c.Open.Equal(decimal.NewFromFloat(10)) {
		t.Errorf("open = %s, want 10", c.Open)
	}
	if !c.High.Equal(decimal.NewFromFloat(12)) {
		t.Errorf("high = %s, want 12", c.High)
	}
	if !c.Low.Equal(decimal.NewFromFloat(9)) {
		t.Errorf("low = %s, want 9", c.Low)
	}
	if !c.Close.Equal(decimal.NewFromFloat(11.2)) {
		t.Errorf("close = %s, want 11.2", c.Close)
	}
	if c.Volume != 450 {
		t.Errorf("volume = %d, want 450", c.Volume)
	}
	if agg.BufferLen() != 0 {
		t.Errorf("buffer should clear after fold, got %d", agg.BufferLen())
	}
}

func TestBarAggregatorTrimsHistoryToCap(t *testing.T) {
	agg := NewBarAggregator(1, 2)
	for i := 0; i < 5; i++ {
		agg.Add(mkBar("AAPL", i, 1, 1, 1, float64(i), 1))
	}
	history := agg.SnapshotHistory()
	if len(history) != 2 {
		t.Fatalf("expected history capped at 2, got %d", len(history))
	}
	if !history[0].Close.Equal(decimal.NewFromFloat(3)) || !history[1].Close.Equal(decimal.NewFromFloat(4)) {
		t.Errorf("expected oldest candles evicted first, got %+v", history)
	}
}

func TestBarAggregatorSeedTrimsFromFront(t *testing.T) {
	agg := NewBarAggregator(1, 2)
	seed := []Candle{
		{Symbol: "AAPL", Close: decimal.NewFromFloat(1)},
		{Symbol: "AAPL", Close: decimal.NewFromFloat(2)},
		{Symbol: "AAPL", Close: decimal.NewFromFloat(3)},
	}
	agg.Seed(seed)
	history := agg.SnapshotHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 candles after seed trim, got %d", len(history))
	}
	if !history[0].Close.Equal(decimal.NewFromFloat(2)) {
		t.Errorf("expected oldest dropped, got %+v", history)
	}
}

func TestBarAggregatorSnapshotIsACopy(t *testing.T) {
	agg := NewBarAggregator(1, 10)
	agg.Add(mkBar("AAPL", 0, 1, 1, 1, 1, 1))
	snap := agg.SnapshotHistory()
	snap[0].Close = decimal.NewFromFloat(999)
	if agg.SnapshotHistory()[0].Close.Equal(decimal.NewFromFloat(999)) {
		t.Errorf("mutating a snapshot must not affect aggregator state")
	}
}
