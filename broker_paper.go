// FILE: broker_paper.go
// Package main – in-memory paper broker (no external calls).
//
// Adapted from the teacher's broker_paper.go: same google/uuid order IDs,
// same "mutable mark price" fill simulation, generalized from a single
// product to the multi-symbol BrokerClient contract. Used for dry runs
// and as the deterministic double in tests.
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaperBroker fills market orders at a caller-supplied mark price per
// symbol and tracks the resulting positions in memory.
type PaperBroker struct {
	mu        sync.Mutex
	marks     map[string]decimal.Decimal
	positions map[string]Position
	history   []Bar // optional seed data returned by HistoricalBars
}

// NewPaperBroker constructs an empty paper broker.
func NewPaperBroker() *PaperBroker {
	return &PaperBroker{
		marks:     make(map[string]decimal.Decimal),
		positions: make(map[string]Position),
	}
}

// SetMark updates the fill price used for subsequent orders on symbol.
func (p *PaperBroker) SetMark(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
}

// SeedHistory supplies the bars HistoricalBars returns, for tests that
// exercise warmup without a real feed.
func (p *PaperBroker) SeedHistory(bars []Bar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = bars
}

func (p *PaperBroker) MostActives(ctx context.Context, criterion ScreenerCriterion, n int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.marks))
	for sym := range p.marks {
		out = append(out, sym)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (p *PaperBroker) HistoricalBars(ctx context.Context, symbols []string, timeframeMinutes int, start, end time.Time) ([]Bar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Bar(nil), p.history...), nil
}

func (p *PaperBroker) GetAllPositions(ctx context.Context) ([]Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	return out, nil
}

// SubmitMarketOrder fills at the current mark price and updates (or
// closes) the in-memory position for req.Symbol.
func (p *PaperBroker) SubmitMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mark, ok := p.marks[req.Symbol]
	if !ok || mark.LessThanOrEqual(decimal.Zero) {
		return OrderResult{}, fmt.Errorf("paper broker: no mark price set for %s", req.Symbol)
	}

	id := uuid.NewString()
	switch req.Side {
	case SideBuy:
		p.positions[req.Symbol] = Position{
			Symbol:        req.Symbol,
			Quantity:      req.Quantity,
			AvgEntryPrice: mark,
			Side:          SideBuy,
			PositionID:    id,
		}
	case SideSell:
		delete(p.positions, req.Symbol)
	}
	return OrderResult{OrderID: id}, nil
}
