// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// Generalized from the teacher's single-symbol Config (ProductID,
// Granularity, risk knobs) to the engine's multi-symbol universe:
// SYMBOLS is optional (falls back to the broker's most-actives screener)
// and TIMEFRAME_MINUTES/HISTORY_SIZE replace the teacher's single
// Granularity string with count-of-bars aggregation knobs.
package main

import "github.com/shopspring/decimal"

// Config holds every runtime knob for the engine and its ops surface.
type Config struct {
	// Universe
	Symbols          []string // optional; empty means "use most_actives"
	MostActiveCount  int
	TimeframeMinutes int
	HistorySize      int

	// Capital / risk
	DryRun    bool
	USDEquity decimal.Decimal

	// Broker credentials (Alpaca)
	AlpacaKey    string
	AlpacaSecret string

	// Ops
	Port int
}

// loadConfigFromEnv reads the process env (already hydrated by
// loadBotEnv) and returns a Config with the documented defaults.
func loadConfigFromEnv() Config {
	return Config{
		Symbols:          getEnvStringSlice("SYMBOLS"),
		MostActiveCount:  getEnvInt("MOST_ACTIVE_COUNT", 10),
		TimeframeMinutes: getEnvInt("TIMEFRAME_MINUTES", 5),
		HistorySize:      getEnvInt("HISTORY_SIZE", 240),
		DryRun:           getEnvBool("DRY_RUN", true),
		USDEquity:        decimal.NewFromFloat(getEnvFloat("USD_EQUITY", 1000.0)),
		AlpacaKey:        getEnv("ALPACA_KEY", ""),
		AlpacaSecret:     getEnv("ALPACA_SECRET", ""),
		Port:             getEnvInt("PORT", 8080),
	}
}
