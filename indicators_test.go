package main

import (
	"math"
	"testing"
)

func TestSMABasic(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	sma := SMA(closes, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(sma[i]) {
			t.Errorf("sma[%d] = %v, want NaN before full window", i, sma[i])
		}
	}
	if got, want := sma[2], 2.0; got != want {
		t.Errorf("sma[2] = %v, want %v", got, want)
	}
	if got, want := sma[4], 4.0; got != want {
		t.Errorf("sma[4] = %v, want %v", got, want)
	}
}

func TestComputeBollingerBandsFlatSeriesHasZeroWidth(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 10
	}
	bands := ComputeBollingerBands(closes, 20, 2)
	last := len(closes) - 1
	if bands.Bandwidth[last] != 0 {
		t.Errorf("bandwidth = %v, want 0 for a flat series", bands.Bandwidth[last])
	}
	if bands.Upper[last] != 10 || bands.Lower[last] != 10 {
		t.Errorf("bands = [%v, %v], want both 10", bands.Lower[last], bands.Upper[last])
	}
}

func TestRateOfChange(t *testing.T) {
	x := []float64{10, 20, 30, 60}
	roc := RateOfChange(x, 1)
	if !math.IsNaN(roc[0]) {
		t.Errorf("roc[0] = %v, want NaN (no lookback)", roc[0])
	}
	if got, want := roc[3], 1.0; got != want {
		t.Errorf("roc[3] = %v, want %v", got, want)
	}
}

func TestRSIExtremesSaturate(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1) // strictly increasing: all gains
	}
	rsi := RSI(closes, 14)
	if got := rsi[19]; got != 100 {
		t.Errorf("rsi on pure uptrend = %v, want 100", got)
	}
}

func TestIsBullishEngulfing(t *testing.T) {
	cases := []struct {
		name                                 string
		prevOpen, prevClose, open, close float64
		want                                 bool
	}{
		{"engulfs", 10, 8, 7, 11, true},
		{"prior not bearish", 8, 10, 7, 11, false},
		{"current not bullish", 10, 8, 11, 7, false},
		{"does not fully engulf", 10, 8, 9, 9.5, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := isBullishEngulfing(c.prevOpen, c.prevClose, c.open, c.close)
			if got != c.want {
				t.Errorf("isBullishEngulfing(%v,%v,%v,%v) = %v, want %v", c.prevOpen, c.prevClose, c.open, c.close, got, c.want)
			}
		})
	}
}
