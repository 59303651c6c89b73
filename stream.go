// FILE: stream.go
// Package main – AlpacaStream: MarketDataStream over Alpaca's streaming
// market-data client.
//
// Grounded on the Alpaca SDK's stream client referenced throughout the
// retrieval pack's Alpaca-dependent files; adapts its per-bar handler
// registration to the engine's OnBar callback contract. Bars are
// normalized to decimal/UTC the same way AlpacaBroker.HistoricalBars does.
package main

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata/stream"
	"github.com/shopspring/decimal"
)

// AlpacaStream delivers live 1-minute bars from Alpaca's streaming API.
type AlpacaStream struct {
	client *stream.StocksClient
	onBar  func(Bar)
}

// NewAlpacaStream constructs an AlpacaStream for the given credentials.
func NewAlpacaStream(apiKey, apiSecret string) *AlpacaStream {
	client := stream.NewStocksClient("iex",
		stream.WithCredentials(apiKey, apiSecret),
	)
	return &AlpacaStream{client: client}
}

// OnBar registers the callback invoked for every delivered bar.
func (s *AlpacaStream) OnBar(cb func(Bar)) {
	s.onBar = cb
}

// Subscribe registers interest in 1-minute bars for symbols. Must be
// called before Run.
func (s *AlpacaStream) Subscribe(symbols []string) error {
	return s.client.SubscribeToBars(s.handleBar, symbols...)
}

// Run connects and blocks until ctx is cancelled or the stream fails.
func (s *AlpacaStream) Run(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("alpaca stream: connect: %w", err)
	}
	return <-s.client.Terminated()
}

func (s *AlpacaStream) handleBar(b stream.Bar) {
	if s.onBar == nil {
		return
	}
	s.onBar(Bar{
		Symbol:    b.Symbol,
		Timestamp: b.Timestamp.UTC(),
		Open:      decimal.NewFromFloat(b.Open),
		High:      decimal.NewFromFloat(b.High),
		Low:       decimal.NewFromFloat(b.Low),
		Close:     decimal.NewFromFloat(b.Close),
		Volume:    int64(b.Volume),
	})
}
