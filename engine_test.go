package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

// mockStream satisfies MarketDataStream without touching the network; tests
// drive it directly by calling the registered callback.
type mockStream struct {
	cb              func(Bar)
	subscribedSyms  []string
	subscribeErr    error
	runErr          error
}

func (s *mockStream) OnBar(cb func(Bar)) { s.cb = cb }

func (s *mockStream) Subscribe(symbols []string) error {
	s.subscribedSyms = symbols
	return s.subscribeErr
}

func (s *mockStream) Run(ctx context.Context) error {
	return s.runErr
}

// stubStrategy returns a fixed set of signals on every Analyze call,
// regardless of history, so engine tests can assert dispatch order without
// depending on RSIBBandsStrategy's warmup/threshold mechanics.
type stubStrategy struct {
	warmup  int
	signals []Signal
}

func (s *stubStrategy) WarmupPeriod() int { return s.warmup }

func (s *stubStrategy) Analyze(historyBySymbol map[string][]Candle) []Signal {
	return s.signals
}

func (s *stubStrategy) DefaultOrderParams() OrderParams {
	return OrderParams{
		RiskPercentage: decimal.NewFromFloat(0.02),
		TPMultiplier:   decimal.NewFromFloat(1.5),
		SLMultiplier:   decimal.NewFromFloat(0.9),
	}
}

func TestTradingEngineOnBarMonitorsBeforeEnteringNewSignal(t *testing.T) {
	broker := &mockBroker{
		submitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderResult, error) {
			return OrderResult{OrderID: "order-1"}, nil
		},
	}
	strat := &stubStrategy{warmup: 1, signals: []Signal{{Kind: SignalBuy, Symbol: "AAPL", Price: decimal.NewFromInt(100)}}}
	om := NewOrderManager(broker, strat.DefaultOrderParams(), nil)
	engine := NewTradingEngine(broker, &mockStream{}, strat, om, decimal.NewFromInt(10000), []string{"AAPL"}, 1, 10)

	// First bar: strategy fires a BUY, entry at 100 with sl=90, tp=150.
	engine.OnBar(mkBar("AAPL", 0, 100, 101, 99, 100, 10))
	order, ok := om.Active("AAPL")
	if !ok {
		t.Fatalf("expected an active order after the first bar's BUY signal")
	}
	if !order.StopLoss.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("stop loss = %s, want 90", order.StopLoss)
	}

	// Second bar closes at the stop-loss price. Monitor runs before the
	// (still-firing) strategy re-evaluates, so the existing order is closed
	// on this bar first and the re-entry is then accepted as a fresh order.
	// Had Place run first, the re-entry would have been rejected as a
	// duplicate and the broker would never have seen a second BUY.
	engine.OnBar(mkBar("AAPL", 1, 95, 96, 89, 90, 10))

	if _, active := om.Active("AAPL"); !active {
		t.Fatalf("expected the stop-loss exit to free the symbol for the same bar's re-entry")
	}
	if len(broker.submittedOrders) != 3 || broker.submittedOrders[1].Side != SideSell || broker.submittedOrders[2].Side != SideBuy {
		t.Fatalf("expected BUY, SELL (stop-loss), BUY submissions in that order, got %+v", broker.submittedOrders)
	}
}

func TestTradingEngineOnBarIgnoresBarsForUntrackedSymbols(t *testing.T) {
	broker := &mockBroker{}
	strat := &stubStrategy{warmup: 1}
	om := NewOrderManager(broker, strat.DefaultOrderParams(), nil)
	engine := NewTradingEngine(broker, &mockStream{}, strat, om, decimal.NewFromInt(10000), []string{"AAPL"}, 1, 10)

	// MSFT was never part of the engine's symbol universe; OnBar must not panic.
	engine.OnBar(mkBar("MSFT", 0, 100, 101, 99, 100, 10))

	if om.ActiveCount() != 0 {
		t.Fatalf("expected no active orders for an untracked symbol's bar")
	}
}

func TestTradingEngineOnBarOnlyActsOnBuySignals(t *testing.T) {
	broker := &mockBroker{
		submitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderResult, error) {
			return OrderResult{OrderID: "order-1"}, nil
		},
	}
	strat := &stubStrategy{warmup: 1, signals: []Signal{{Kind: SignalSell, Symbol: "AAPL", Price: decimal.NewFromInt(100)}}}
	om := NewOrderManager(broker, strat.DefaultOrderParams(), nil)
	engine := NewTradingEngine(broker, &mockStream{}, strat, om, decimal.NewFromInt(10000), []string{"AAPL"}, 1, 10)

	engine.OnBar(mkBar("AAPL", 0, 100, 101, 99, 100, 10))

	if om.ActiveCount() != 0 {
		t.Fatalf("a SELL signal must never open a new position")
	}
	if len(broker.submittedOrders) != 0 {
		t.Fatalf("expected no broker submission for a non-BUY signal")
	}
}

func TestTradingEngineRunRegistersAndSubscribesBeforeBlocking(t *testing.T) {
	broker := &mockBroker{}
	strat := &stubStrategy{warmup: 1}
	om := NewOrderManager(broker, strat.DefaultOrderParams(), nil)
	stream := &mockStream{}
	engine := NewTradingEngine(broker, stream, strat, om, decimal.NewFromInt(10000), []string{"AAPL", "MSFT"}, 1, 10)

	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if stream.cb == nil {
		t.Fatalf("expected Run to register OnBar before blocking")
	}
	if len(stream.subscribedSyms) != 2 {
		t.Fatalf("expected Subscribe to receive both symbols, got %v", stream.subscribedSyms)
	}
}

func TestTradingEngineModeReflectsBrokerType(t *testing.T) {
	paper := NewPaperBroker()
	strat := &stubStrategy{warmup: 1}
	om := NewOrderManager(paper, strat.DefaultOrderParams(), nil)
	engine := NewTradingEngine(paper, &mockStream{}, strat, om, decimal.NewFromInt(10000), []string{"AAPL"}, 1, 10)
	if got := engine.mode(); got != "paper" {
		t.Errorf("mode() = %q, want %q for a PaperBroker", got, "paper")
	}
}
