// FILE: broker.go
// Package main – Broker and market-data capability contracts.
//
// Grounded on the teacher's own broker.go interface shape (context
// params, typed results) and generalized to a multi-venue BrokerClient
// surface: most-active screening, historical bars, open positions,
// market order submission. Screener criteria and order side are typed
// enums, never raw strings.
package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ScreenerCriterion selects the ranking used by MostActives.
type ScreenerCriterion string

const (
	// ScreenerByVolume ranks candidates by rolling traded volume.
	ScreenerByVolume ScreenerCriterion = "volume"
)

// TimeInForce is the lifetime of a submitted order.
type TimeInForce string

// GTC is the only time-in-force the engine ever requests; it never
// places bracket or limit orders.
const GTC TimeInForce = "GTC"

// Position is a broker-reported open position, as returned by
// GetAllPositions. PositionID is opaque and broker-specific; the engine
// uses it only as the tail of the "sync:<symbol>:<PositionID>"
// ActiveOrder.ID on adoption.
type Position struct {
	Symbol        string
	Quantity      decimal.Decimal
	AvgEntryPrice decimal.Decimal
	Side          OrderSide
	PositionID    string
}

// OrderRequest is the normalized order submitted to a broker.
type OrderRequest struct {
	Symbol      string
	Side        OrderSide
	Quantity    decimal.Decimal
	TimeInForce TimeInForce
}

// OrderResult is returned by a successful SubmitMarketOrder.
type OrderResult struct {
	OrderID string
}

// BrokerClient is the external trading/data capability the engine
// consumes. Every method may block on network I/O and must be
// passed a context; AlpacaBroker routes its own calls through a Breaker
// (resilience.go), callers do not.
type BrokerClient interface {
	// MostActives returns up to n symbols ranked by criterion.
	MostActives(ctx context.Context, criterion ScreenerCriterion, n int) ([]string, error)

	// HistoricalBars returns 1-minute bars for symbols in [start, end), UTC.
	HistoricalBars(ctx context.Context, symbols []string, timeframeMinutes int, start, end time.Time) ([]Bar, error)

	// GetAllPositions returns every currently open position at the broker.
	GetAllPositions(ctx context.Context) ([]Position, error)

	// SubmitMarketOrder places a market order and returns its broker-assigned ID.
	SubmitMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// MarketDataStream delivers live 1-minute bars to a registered callback
// and owns the process until interrupted. OnBar must be called
// before Run; Run blocks until ctx is cancelled or the stream fails.
type MarketDataStream interface {
	OnBar(cb func(Bar))
	Subscribe(symbols []string) error
	Run(ctx context.Context) error
}
