// FILE: main.go
// Package main – Program entrypoint and HTTP/metrics server.
//
// Boot sequence, grounded directly on the teacher's main.go:
//   1) loadBotEnv()               – read .env via godotenv
//   2) cfg := loadConfigFromEnv() – build runtime Config
//   3) wire broker (Alpaca or paper) and market-data stream
//   4) resolve symbol universe (explicit SYMBOLS, else most_actives)
//   5) construct strategy + engine
//   6) start Prometheus /metrics and /healthz on cfg.Port
//   7) run warmup + reconcile
//   8) subscribe and run until interrupted
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	loadBotEnv()
	cfg := loadConfigFromEnv()

	var broker BrokerClient
	var dataStream MarketDataStream
	if cfg.DryRun {
		broker = NewPaperBroker()
		dataStream = nil
	} else {
		if cfg.AlpacaKey == "" || cfg.AlpacaSecret == "" {
			log.Fatalf("config error: ALPACA_KEY/ALPACA_SECRET required when DRY_RUN=false")
		}
		broker = NewAlpacaBroker(cfg.AlpacaKey, cfg.AlpacaSecret, "https://paper-api.alpaca.markets")
		dataStream = NewAlpacaStream(cfg.AlpacaKey, cfg.AlpacaSecret)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	symbols := cfg.Symbols
	if len(symbols) == 0 {
		resolved, err := MostActiveSymbols(ctx, broker, cfg.MostActiveCount)
		if err != nil {
			log.Fatalf("config error: resolving symbol universe: %v", err)
		}
		symbols = resolved
	}
	if len(symbols) == 0 {
		log.Fatalf("config error: no symbols to trade (set SYMBOLS or check most_actives)")
	}
	log.Printf("trading universe: %v", symbols)

	strategy := NewRSIBBandsStrategy(DefaultRSIBBandsStrategyConfig())
	orders := NewOrderManager(broker, strategy.DefaultOrderParams(), NoTruncation)
	engine := NewTradingEngine(broker, dataStream, strategy, orders, cfg.USDEquity, symbols, cfg.TimeframeMinutes, cfg.HistorySize)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Printf("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	log.Printf("warmup: fetching history for %d symbols", len(symbols))
	engine.Warmup(ctx)

	log.Printf("reconciling open positions")
	if err := engine.Reconcile(ctx); err != nil {
		log.Printf("reconcile: %v (continuing with no adopted positions)", err)
	}

	if dataStream != nil {
		log.Printf("subscribing and running")
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("stream run: %v", err)
		}
	} else {
		log.Printf("dry run: no live stream configured, idling until interrupted")
		<-ctx.Done()
	}

	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}
