// FILE: model.go
// Package main – Core data types shared across the engine.
//
// Bar/Candle carry OHLCV as decimal.Decimal (not float64): these values
// flow into stop-loss/take-profit comparisons on every tick and repeated
// float arithmetic would let the thresholds drift. Indicator math in
// indicators.go converts to float64 internally; that's statistics, not
// a ledger.
package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the side of a trade.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderOrigin records how an ActiveOrder entered the book.
type OrderOrigin string

const (
	OriginPlaced  OrderOrigin = "PLACED"
	OriginAdopted OrderOrigin = "ADOPTED"
)

// SignalKind is the high-level intent carried by a Signal.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

// Bar is a single inbound OHLCV sample, nominally 1-minute.
type Bar struct {
	Symbol    string
	Timestamp time.Time // UTC
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}

// Candle is an aggregated N-minute OHLCV bar, same shape as Bar.
type Candle struct {
	Symbol    string
	Timestamp time.Time // UTC, timestamp of the last folded bar
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}

// Signal carries an entry (or, reserved for future strategies, exit) intent.
type Signal struct {
	Kind   SignalKind
	Symbol string
	Price  decimal.Decimal
}

// OrderParams is the immutable risk/exit configuration applied at entry time.
type OrderParams struct {
	RiskPercentage  decimal.Decimal // (0,1]
	TPMultiplier    decimal.Decimal // > 1
	SLMultiplier    decimal.Decimal // (0,1)
	UseTrailingStop bool            // reserved; inactive in the reference strategy
	Extra           map[string]any
}

// ActiveOrder is an entry currently being monitored for exit. Immutable
// after construction; removal from the OrderManager's map is the only
// terminal transition.
type ActiveOrder struct {
	ID         string
	Symbol     string
	Side       OrderSide
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	OpenedAt   time.Time
	Origin     OrderOrigin
}

// StrategyPerSymbolState is the two-stage state machine's memory for one symbol.
type StrategyPerSymbolState struct {
	Stage1Armed bool
}

// foldBars folds a buffer of 1-minute bars into a single aggregated
// candle: open=first, high=max, low=min, close=last, volume=sum,
// timestamp=last.
func foldBars(buf []Bar) Candle {
	first := buf[0]
	last := buf[len(buf)-1]
	c := Candle{
		Symbol:    first.Symbol,
		Timestamp: last.Timestamp,
		Open:      first.Open,
		High:      first.High,
		Low:       first.Low,
		Close:     last.Close,
	}
	var vol int64
	for _, b := range buf {
		if b.High.GreaterThan(c.High) {
			c.High = b.High
		}
		if b.Low.LessThan(c.Low) {
			c.Low = b.Low
		}
		vol += b.Volume
	}
	c.Volume = vol
	return c
}
