// FILE: broker_alpaca.go
// Package main – AlpacaBroker: BrokerClient over the Alpaca trading +
// market-data REST API.
//
// Grounded on other_examples' bollinger_ban.go (alpaca.NewClient /
// marketdata.NewClient construction, marketdata.GetBarsRequest,
// tradingClient.GetPositions, alpaca.PlaceOrderRequest with a decimal
// Qty). Every call is routed through a resilience.Breaker so a broker
// outage surfaces as a single wrapped error instead of hanging or
// retrying internally.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaBroker implements BrokerClient against a real Alpaca account.
type AlpacaBroker struct {
	trading    *alpaca.Client
	data       *marketdata.Client
	httpClient *http.Client
	dataBase   string
	apiKey     string
	apiSecret  string
	breaker    *Breaker[any]
}

// NewAlpacaBroker constructs an AlpacaBroker for the given credentials
// and base URL (paper or live trading endpoint).
func NewAlpacaBroker(apiKey, apiSecret, baseURL string) *AlpacaBroker {
	return &AlpacaBroker{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dataBase:   "https://data.alpaca.markets",
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		breaker:    NewBreaker[any](DefaultBreakerConfig("alpaca")),
	}
}

// mostActiveEntry is the subset of Alpaca's /v1beta1/screener/stocks/most-actives
// response this broker cares about. The Go SDK does not wrap the
// screener endpoint, so it is called directly.
type mostActiveEntry struct {
	Symbol string `json:"symbol"`
}

type mostActivesResponse struct {
	MostActives []mostActiveEntry `json:"most_actives"`
}

// MostActives ranks symbols by Alpaca's "most actives" screener. Only
// volume-based ranking is wired; other ScreenerCriterion values fail
// fast rather than silently falling back.
func (b *AlpacaBroker) MostActives(ctx context.Context, criterion ScreenerCriterion, n int) ([]string, error) {
	if criterion != ScreenerByVolume {
		return nil, fmt.Errorf("alpaca broker: unsupported screener criterion %q", criterion)
	}
	result, err := b.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		url := fmt.Sprintf("%s/v1beta1/screener/stocks/most-actives?by=volume&top=%d", b.dataBase, n)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("APCA-API-KEY-ID", b.apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", b.apiSecret)

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("most actives: status %d: %s", resp.StatusCode, string(body))
		}
		var parsed mostActivesResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, err
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}
	parsed, ok := result.(mostActivesResponse)
	if !ok {
		return nil, nil
	}
	symbols := make([]string, len(parsed.MostActives))
	for i, a := range parsed.MostActives {
		symbols[i] = a.Symbol
	}
	return symbols, nil
}

// HistoricalBars fetches 1-minute bars for each symbol in [start, end)
// and normalizes them into the engine's decimal-based Bar shape.
func (b *AlpacaBroker) HistoricalBars(ctx context.Context, symbols []string, timeframeMinutes int, start, end time.Time) ([]Bar, error) {
	tf, err := marketdata.NewTimeFrame(timeframeMinutes, marketdata.Min)
	if err != nil {
		return nil, fmt.Errorf("alpaca broker: timeframe: %w", err)
	}

	var out []Bar
	for _, symbol := range symbols {
		symbol := symbol
		result, err := b.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
			return b.data.GetBars(symbol, marketdata.GetBarsRequest{
				TimeFrame: tf,
				Start:     start,
				End:       end,
			})
		})
		if err != nil {
			return out, err
		}
		bars, _ := result.([]marketdata.Bar)
		for _, raw := range bars {
			out = append(out, Bar{
				Symbol:    symbol,
				Timestamp: raw.Timestamp.UTC(),
				Open:      decimal.NewFromFloat(raw.Open),
				High:      decimal.NewFromFloat(raw.High),
				Low:       decimal.NewFromFloat(raw.Low),
				Close:     decimal.NewFromFloat(raw.Close),
				Volume:    int64(raw.Volume),
			})
		}
	}
	return out, nil
}

// GetAllPositions returns every open position at the broker.
func (b *AlpacaBroker) GetAllPositions(ctx context.Context) ([]Position, error) {
	result, err := b.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		return b.trading.GetPositions()
	})
	if err != nil {
		return nil, err
	}
	positions, _ := result.([]alpaca.Position)
	out := make([]Position, len(positions))
	for i, p := range positions {
		side := SideBuy
		if p.Side == "short" {
			side = SideSell
		}
		out[i] = Position{
			Symbol:        p.Symbol,
			Quantity:      p.Qty,
			AvgEntryPrice: p.AvgEntryPrice,
			Side:          side,
			PositionID:    p.AssetID.String(),
		}
	}
	return out, nil
}

// SubmitMarketOrder submits a plain market order (no bracket legs: the
// engine manages stop-loss/take-profit itself via OrderManager.Monitor).
func (b *AlpacaBroker) SubmitMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	side := alpaca.Buy
	if req.Side == SideSell {
		side = alpaca.Sell
	}
	qty := req.Quantity
	result, err := b.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		return b.trading.PlaceOrder(alpaca.PlaceOrderRequest{
			Symbol:      req.Symbol,
			Qty:         &qty,
			Side:        side,
			Type:        alpaca.Market,
			TimeInForce: alpaca.GTC,
		})
	})
	if err != nil {
		return OrderResult{}, err
	}
	order, _ := result.(alpaca.Order)
	return OrderResult{OrderID: order.ID}, nil
}
