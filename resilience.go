// FILE: resilience.go
// Package main – circuit breaker wrapping every broker call.
//
// Grounded on Funky1981-jax-trading-assistant/libs/resilience/circuitbreaker.go
// (Settings: MaxRequests/Interval/Timeout/ReadyToTrip on consecutive-failure
// ratio, OnStateChange logging); adapted to the repo's flat layout and to
// github.com/sony/gobreaker/v2's generic CircuitBreaker[T]. AlpacaBroker
// shares one Breaker[any] across its calls and type-asserts each result.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures a Breaker. A tripped breaker causes every
// in-flight call to fail immediately instead of reaching the broker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MaxFailures uint32
}

// DefaultBreakerConfig returns sensible defaults for wrapping a broker call.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		MaxFailures: 5,
	}
}

// Breaker wraps a broker call with failure-ratio trip logic.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// NewBreaker builds a Breaker from cfg.
func NewBreaker[T any](cfg BreakerConfig) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && (counts.ConsecutiveFailures >= cfg.MaxFailures || failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings), name: cfg.Name}
}

// Execute runs fn under the breaker. A tripped breaker or ctx cancellation
// both surface as a plain wrapped error: the caller treats them
// identically.
func (b *Breaker[T]) Execute(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("broker %s: %w", b.name, err)
	}
	result, err := b.cb.Execute(func() (T, error) { return fn(ctx) })
	if err != nil {
		var zero T
		return zero, fmt.Errorf("broker %s: %w", b.name, err)
	}
	return result, nil
}
