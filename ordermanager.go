// FILE: ordermanager.go
// Package main – OrderManager: order lifecycle, exit monitoring, and
// broker position reconciliation.
//
// Grounded structurally on the teacher's BotState/SideBook bookkeeping in
// trader.go (a map of live positions guarded against duplicates), but
// generalized to a single order per symbol (no pyramiding) and to an
// explicit Rejected/Accepted/Failed result taxonomy. Broker calls go
// straight to the BrokerClient; AlpacaBroker wraps its own calls in a
// Breaker (resilience.go).
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOutcome is the kind of result OrderManager.Place returns.
type PlaceOutcome string

const (
	PlaceAccepted PlaceOutcome = "ACCEPTED"
	PlaceRejected PlaceOutcome = "REJECTED"
	PlaceFailed   PlaceOutcome = "FAILED"
)

// RejectReason qualifies a PlaceRejected outcome.
type RejectReason string

const RejectDuplicatePosition RejectReason = "DUPLICATE_POSITION"

// PlaceResult is returned by Place.
type PlaceResult struct {
	Outcome PlaceOutcome
	Order   ActiveOrder
	Reason  RejectReason
	Err     error
}

// ExitReason names why Monitor closed an ActiveOrder.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
)

// ExitResult records one order closed by Monitor.
type ExitResult struct {
	Order  ActiveOrder
	Reason ExitReason
	Err    error
}

// OrderManager tracks active orders, places entries, reconciles with the
// broker, and monitors exits. Not safe for concurrent use by design: the
// engine serializes all calls onto a single goroutine.
type OrderManager struct {
	broker      BrokerClient
	orderParams OrderParams
	calc        OrderCalculator
	lot         LotSizer
	active      map[string]ActiveOrder // keyed by symbol: exactly one per symbol
}

// NewOrderManager constructs an OrderManager with no active orders.
func NewOrderManager(broker BrokerClient, params OrderParams, lot LotSizer) *OrderManager {
	if lot == nil {
		lot = NoTruncation
	}
	return &OrderManager{
		broker:      broker,
		orderParams: params,
		lot:         lot,
		active:      make(map[string]ActiveOrder),
	}
}

// Active returns the order currently tracked for symbol, if any.
func (m *OrderManager) Active(symbol string) (ActiveOrder, bool) {
	o, ok := m.active[symbol]
	return o, ok
}

// ActiveCount returns the number of symbols with an open order.
func (m *OrderManager) ActiveCount() int {
	return len(m.active)
}

// Place handles a BUY signal: reject on an existing position for the
// symbol, else size the order, submit, and track it on success.
func (m *OrderManager) Place(ctx context.Context, signal Signal, capital decimal.Decimal) PlaceResult {
	if _, exists := m.active[signal.Symbol]; exists {
		return PlaceResult{Outcome: PlaceRejected, Reason: RejectDuplicatePosition}
	}

	qty, sl, tp, err := m.calc.Compute(capital, signal.Price, m.orderParams, m.lot)
	if err != nil {
		return PlaceResult{Outcome: PlaceFailed, Err: fmt.Errorf("order calculator: %w", err)}
	}

	res, err := m.broker.SubmitMarketOrder(ctx, OrderRequest{
		Symbol:      signal.Symbol,
		Side:        SideBuy,
		Quantity:    qty,
		TimeInForce: GTC,
	})
	if err != nil {
		return PlaceResult{Outcome: PlaceFailed, Err: fmt.Errorf("submit market order: %w", err)}
	}

	order := ActiveOrder{
		ID:         res.OrderID,
		Symbol:     signal.Symbol,
		Side:       SideBuy,
		Quantity:   qty,
		EntryPrice: signal.Price,
		StopLoss:   sl,
		TakeProfit: tp,
		OpenedAt:   time.Now().UTC(),
		Origin:     OriginPlaced,
	}
	m.active[signal.Symbol] = order
	return PlaceResult{Outcome: PlaceAccepted, Order: order}
}

// Monitor checks every active order against its symbol's last price and
// closes any that crossed stop-loss or take-profit. Stop-loss takes
// precedence when both thresholds straddle the same bar. Exits are
// edge-triggered: once closed, an order no longer appears in Active.
func (m *OrderManager) Monitor(ctx context.Context, prices map[string]decimal.Decimal) []ExitResult {
	var results []ExitResult
	for symbol, price := range prices {
		order, ok := m.active[symbol]
		if !ok || order.Side != SideBuy {
			continue
		}

		var reason ExitReason
		switch {
		case price.LessThanOrEqual(order.StopLoss):
			reason = ExitStopLoss
		case price.GreaterThanOrEqual(order.TakeProfit):
			reason = ExitTakeProfit
		default:
			continue
		}

		_, err := m.broker.SubmitMarketOrder(ctx, OrderRequest{
			Symbol:      symbol,
			Side:        SideSell,
			Quantity:    order.Quantity,
			TimeInForce: GTC,
		})
		if err != nil {
			log.Printf("ordermanager: close %s failed, leaving active for re-evaluation: %v", symbol, err)
			results = append(results, ExitResult{Order: order, Reason: reason, Err: err})
			continue
		}

		delete(m.active, symbol)
		results = append(results, ExitResult{Order: order, Reason: reason})
	}
	return results
}

// SyncPositions reconciles broker-reported open positions into active.
// Must be called exactly once, before the stream starts; repeated
// calls are idempotent given a stable broker view, since a symbol already
// tracked in active is left untouched.
func (m *OrderManager) SyncPositions(ctx context.Context) error {
	positions, err := m.broker.GetAllPositions(ctx)
	if err != nil {
		return fmt.Errorf("sync positions: %w", err)
	}

	for _, pos := range positions {
		if _, tracked := m.active[pos.Symbol]; tracked {
			continue
		}

		sl := pos.AvgEntryPrice.Mul(m.orderParams.SLMultiplier)
		tp := pos.AvgEntryPrice.Mul(m.orderParams.TPMultiplier)
		m.active[pos.Symbol] = ActiveOrder{
			ID:         "sync:" + pos.Symbol + ":" + pos.PositionID,
			Symbol:     pos.Symbol,
			Side:       pos.Side,
			Quantity:   pos.Quantity,
			EntryPrice: pos.AvgEntryPrice,
			StopLoss:   sl,
			TakeProfit: tp,
			OpenedAt:   time.Now().UTC(),
			Origin:     OriginAdopted,
		}
	}
	return nil
}
