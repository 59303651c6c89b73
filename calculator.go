// FILE: calculator.go
// Package main – OrderCalculator: pure, stateless sizing and exit-price math.
//
// Grounded on the teacher's position-sizing logic in trader.go
// (equity * risk_pct / price) and the bracket-order math in
// other_examples' bollinger_ban.go (stopPrice/limitPrice as
// entryPrice * (1 ± pct)); generalized into an explicit
// stop-loss/take-profit multiplier form.
package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidParams is returned when OrderParams or entry price can't
// produce a coherent sl < entry < tp ordering.
var ErrInvalidParams = errors.New("invalid order params")

// OrderCalculator computes quantity, stop-loss, and take-profit for an
// entry. It holds no state and performs no I/O; same inputs always
// produce the same outputs.
type OrderCalculator struct{}

// LotSizer truncates a raw quantity to the venue's tradable increment.
// The default (identity) allows fractional quantities; lot-size
// enforcement is pluggable per venue rather than built into the sizing
// math itself.
type LotSizer func(qty decimal.Decimal) decimal.Decimal

// NoTruncation is the default LotSizer: fractional quantities allowed.
func NoTruncation(qty decimal.Decimal) decimal.Decimal { return qty }

// Compute returns (quantity, stopLoss, takeProfit) for a long entry at
// entryPrice funded by capital, under params. lot defaults to
// NoTruncation when nil.
func (OrderCalculator) Compute(capital, entryPrice decimal.Decimal, params OrderParams, lot LotSizer) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	if err := validateParams(entryPrice, params); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	if lot == nil {
		lot = NoTruncation
	}
	raw := capital.Mul(params.RiskPercentage).Div(entryPrice)
	qty := lot(raw)
	stopLoss := entryPrice.Mul(params.SLMultiplier)
	takeProfit := entryPrice.Mul(params.TPMultiplier)
	return qty, stopLoss, takeProfit, nil
}

func validateParams(entryPrice decimal.Decimal, params OrderParams) error {
	if entryPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: entry_price must be > 0, got %s", ErrInvalidParams, entryPrice)
	}
	if params.SLMultiplier.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: sl_multiplier must be < 1, got %s", ErrInvalidParams, params.SLMultiplier)
	}
	if params.TPMultiplier.LessThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: tp_multiplier must be > 1, got %s", ErrInvalidParams, params.TPMultiplier)
	}
	return nil
}
