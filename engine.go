// FILE: engine.go
// Package main – TradingEngine: warmup, reconciliation, subscription, and
// the per-bar dispatch loop.
//
// Grounded on the teacher's live.go boot sequence (warmup fetch → fit →
// run loop, with log.Printf banners at each stage); the warmup fetch here
// runs per-symbol concurrently via golang.org/x/sync/errgroup instead of
// the teacher's single paged HTTP call, since the engine now covers a
// multi-symbol universe rather than one product.
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// brokerRecentDataShift accounts for the broker-tier constraint that
// recent data within this window is not queryable on the free tier.
const brokerRecentDataShift = 16 * time.Minute

// maxConcurrentWarmupFetches bounds per-symbol historical_bars calls
// during Warmup so a large symbol universe doesn't exceed the broker's
// rate limit.
const maxConcurrentWarmupFetches = 4

// TradingEngine orchestrates warmup, reconciliation, subscription, and
// per-bar dispatch for a fixed universe of symbols.
type TradingEngine struct {
	broker     BrokerClient
	stream     MarketDataStream
	strategy   Strategy
	orders     *OrderManager
	capital    decimal.Decimal
	symbols    []string
	aggregates map[string]*BarAggregator
}

// NewTradingEngine wires a TradingEngine for symbols, folding bars every
// timeframeMinutes into candles capped at historySize.
func NewTradingEngine(broker BrokerClient, stream MarketDataStream, strategy Strategy, orders *OrderManager, capital decimal.Decimal, symbols []string, timeframeMinutes, historySize int) *TradingEngine {
	aggs := make(map[string]*BarAggregator, len(symbols))
	for _, sym := range symbols {
		aggs[sym] = NewBarAggregator(timeframeMinutes, historySize)
	}
	return &TradingEngine{
		broker:     broker,
		stream:     stream,
		strategy:   strategy,
		orders:     orders,
		capital:    capital,
		symbols:    symbols,
		aggregates: aggs,
	}
}

// MostActiveSymbols delegates to the broker's screener, used by the CLI
// when the operator does not pass an explicit symbol list.
func MostActiveSymbols(ctx context.Context, broker BrokerClient, n int) ([]string, error) {
	return broker.MostActives(ctx, ScreenerByVolume, n)
}

// Warmup fetches historical bars for every symbol concurrently (bounded
// by maxConcurrentWarmupFetches) and seeds each symbol's aggregator.
// Best-effort: a single symbol's fetch failure is logged and skipped,
// not fatal; only ctx cancellation aborts the whole warmup.
func (e *TradingEngine) Warmup(ctx context.Context) {
	lookbackMinutes := warmupLookbackMinutes(e.strategy.WarmupPeriod(), e.aggregateTimeframe())
	end := time.Now().UTC().Add(-brokerRecentDataShift)
	start := end.Add(-time.Duration(lookbackMinutes) * time.Minute)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWarmupFetches)

	for _, sym := range e.symbols {
		sym := sym
		g.Go(func() error {
			bars, err := e.broker.HistoricalBars(gctx, []string{sym}, 1, start, end)
			if err != nil {
				log.Printf("engine: warmup fetch failed for %s, continuing with fewer candles: %v", sym, err)
				return nil
			}
			agg := e.aggregates[sym]
			for _, bar := range bars {
				bar.Timestamp = bar.Timestamp.UTC()
				agg.Add(bar)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("engine: warmup cancelled, proceeding with partial history: %v", err)
	}
}

// aggregateTimeframe returns the configured timeframe shared by every
// symbol's aggregator (all constructed with the same timeframeMinutes).
func (e *TradingEngine) aggregateTimeframe() int {
	for _, agg := range e.aggregates {
		return agg.timeframeMinutes
	}
	return 1
}

// warmupLookbackMinutes computes ceil(warmupPeriod * timeframe * 1.5).
func warmupLookbackMinutes(warmupPeriod, timeframeMinutes int) int {
	return int(math.Ceil(float64(warmupPeriod) * float64(timeframeMinutes) * 1.5))
}

// Reconcile calls OrderManager.SyncPositions. Must be invoked after
// Warmup and before Subscribe.
func (e *TradingEngine) Reconcile(ctx context.Context) error {
	return e.orders.SyncPositions(ctx)
}

// Run registers OnBar with the stream and blocks on the stream's run loop
// until ctx is cancelled or the stream fails.
func (e *TradingEngine) Run(ctx context.Context) error {
	e.stream.OnBar(e.OnBar)
	if err := e.stream.Subscribe(e.symbols); err != nil {
		return err
	}
	return e.stream.Run(ctx)
}

// OnBar is the single-threaded per-bar dispatch: monitor exits before
// aggregation/entry evaluation, so an entry decided on this bar's close
// cannot be immediately stopped out by the same close. A malformed bar
// is dropped before it reaches the aggregator or the position monitor,
// and a panic anywhere downstream is recovered here rather than left to
// terminate the calling stream, since no per-bar failure may escape this
// callback.
func (e *TradingEngine) OnBar(bar Bar) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: recovered panic handling bar %s @ %s: %v", bar.Symbol, bar.Timestamp, r)
		}
	}()

	if err := validateBar(bar); err != nil {
		log.Printf("engine: dropping malformed bar %s @ %s: %v", bar.Symbol, bar.Timestamp, err)
		return
	}

	exits := e.orders.Monitor(context.Background(), map[string]decimal.Decimal{bar.Symbol: bar.Close})
	for _, exit := range exits {
		if exit.Err == nil {
			IncExit(string(exit.Reason), exit.Order.Symbol)
			SetActivePositions(e.orders.ActiveCount())
		}
	}

	agg, ok := e.aggregates[bar.Symbol]
	if !ok {
		return
	}
	if !agg.Add(bar) {
		return
	}

	histories := make(map[string][]Candle, len(e.aggregates))
	for sym, a := range e.aggregates {
		histories[sym] = a.SnapshotHistory()
	}

	signals := e.strategy.Analyze(histories)
	for _, sig := range signals {
		if sig.Kind != SignalBuy {
			continue
		}
		IncSignal(sig.Symbol)
		result := e.orders.Place(context.Background(), sig, e.capital)
		if result.Outcome != PlaceAccepted {
			reason := string(result.Reason)
			if reason == "" {
				reason = "error"
			}
			IncRejection(reason)
			log.Printf("engine: place %s rejected/failed: outcome=%s reason=%s err=%v", sig.Symbol, result.Outcome, result.Reason, result.Err)
			continue
		}
		IncOrder(e.mode(), string(SideBuy))
		SetActivePositions(e.orders.ActiveCount())
	}
}

// mode reports "paper" or "live" for metric labeling, based on the
// concrete BrokerClient wired into the engine.
func (e *TradingEngine) mode() string {
	if _, ok := e.broker.(*PaperBroker); ok {
		return "paper"
	}
	return "live"
}

// validateBar rejects a malformed inbound bar: an empty symbol, a
// non-positive OHLC price, or non-positive volume. Bars failing this
// check are dropped by the caller rather than fed into the aggregator
// or the position monitor.
func validateBar(bar Bar) error {
	if bar.Symbol == "" {
		return fmt.Errorf("empty symbol")
	}
	for name, price := range map[string]decimal.Decimal{
		"open": bar.Open, "high": bar.High, "low": bar.Low, "close": bar.Close,
	} {
		if price.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("non-positive %s price %s", name, price)
		}
	}
	if bar.Volume <= 0 {
		return fmt.Errorf("non-positive volume %d", bar.Volume)
	}
	return nil
}
