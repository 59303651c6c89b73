// FILE: strategy.go
// Package main – Strategy capability and the RSIBBandsStrategy.
//
// Structural shape (interface + analyze-returns-signals) is grounded on
// the teacher's strategy.go Decision/decide() pattern; the decision logic
// itself is new, implementing a two-stage Bollinger/RSI/engulfing
// state machine in place of the teacher's micro-model blend.
package main

import (
	"math"

	"github.com/shopspring/decimal"
)

// Strategy is the capability the engine consumes. Implementations
// must be side-effect-free apart from their own per-symbol state, and
// must not perform I/O.
type Strategy interface {
	WarmupPeriod() int
	Analyze(historyBySymbol map[string][]Candle) []Signal
	DefaultOrderParams() OrderParams
}

// RSIBBandsStrategyConfig holds the tunable periods and thresholds.
// Zero-value fields are replaced with the documented defaults by
// NewRSIBBandsStrategy.
type RSIBBandsStrategyConfig struct {
	BBPeriod         int
	BBStdDev         float64
	RSIPeriod        int
	ROCPeriod        int
	Stage1RSIThresh  float64
	Stage2RSIEntry   float64
	Stage2RSIExit    float64
	Stage2MinROC     float64
}

// DefaultRSIBBandsStrategyConfig returns the documented default periods
// and thresholds.
func DefaultRSIBBandsStrategyConfig() RSIBBandsStrategyConfig {
	return RSIBBandsStrategyConfig{
		BBPeriod:        20,
		BBStdDev:        2,
		RSIPeriod:       14,
		ROCPeriod:       9,
		Stage1RSIThresh: 30,
		Stage2RSIEntry:  30,
		Stage2RSIExit:   40,
		Stage2MinROC:    0.15,
	}
}

// RSIBBandsStrategy implements a two-stage mean-reversion state machine:
// stage 1 arms on an oversold Bollinger breach, stage 2 confirms
// recovery with RSI range + bandwidth expansion + a bullish engulfing
// candle before firing.
type RSIBBandsStrategy struct {
	cfg   RSIBBandsStrategyConfig
	state map[string]*StrategyPerSymbolState
}

// NewRSIBBandsStrategy constructs a strategy; zero-valued fields in cfg
// fall back to DefaultRSIBBandsStrategyConfig's values.
func NewRSIBBandsStrategy(cfg RSIBBandsStrategyConfig) *RSIBBandsStrategy {
	def := DefaultRSIBBandsStrategyConfig()
	if cfg.BBPeriod == 0 {
		cfg.BBPeriod = def.BBPeriod
	}
	if cfg.BBStdDev == 0 {
		cfg.BBStdDev = def.BBStdDev
	}
	if cfg.RSIPeriod == 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.ROCPeriod == 0 {
		cfg.ROCPeriod = def.ROCPeriod
	}
	if cfg.Stage1RSIThresh == 0 {
		cfg.Stage1RSIThresh = def.Stage1RSIThresh
	}
	if cfg.Stage2RSIEntry == 0 {
		cfg.Stage2RSIEntry = def.Stage2RSIEntry
	}
	if cfg.Stage2RSIExit == 0 {
		cfg.Stage2RSIExit = def.Stage2RSIExit
	}
	if cfg.Stage2MinROC == 0 {
		cfg.Stage2MinROC = def.Stage2MinROC
	}
	return &RSIBBandsStrategy{cfg: cfg, state: make(map[string]*StrategyPerSymbolState)}
}

// WarmupPeriod returns max(bb_period, rsi_period, roc_period) + 1.
func (s *RSIBBandsStrategy) WarmupPeriod() int {
	period := s.cfg.BBPeriod
	if s.cfg.RSIPeriod > period {
		period = s.cfg.RSIPeriod
	}
	if s.cfg.ROCPeriod > period {
		period = s.cfg.ROCPeriod
	}
	return period + 1
}

// DefaultOrderParams returns this strategy's default risk/exit configuration.
func (s *RSIBBandsStrategy) DefaultOrderParams() OrderParams {
	return OrderParams{
		RiskPercentage:  decimal.NewFromFloat(0.02),
		TPMultiplier:    decimal.NewFromFloat(1.5),
		SLMultiplier:    decimal.NewFromFloat(0.9),
		UseTrailingStop: false,
	}
}

func (s *RSIBBandsStrategy) symbolState(symbol string) *StrategyPerSymbolState {
	st, ok := s.state[symbol]
	if !ok {
		st = &StrategyPerSymbolState{Stage1Armed: false}
		s.state[symbol] = st
	}
	return st
}

// Analyze iterates symbols whose history is at least WarmupPeriod long
// and returns every BUY signal fired on the most recent completed candle.
func (s *RSIBBandsStrategy) Analyze(historyBySymbol map[string][]Candle) []Signal {
	warmup := s.WarmupPeriod()
	var signals []Signal
	for symbol, history := range historyBySymbol {
		if len(history) < warmup {
			continue
		}
		if sig, ok := s.analyzeSymbol(symbol, history); ok {
			signals = append(signals, sig)
		}
	}
	return signals
}

func (s *RSIBBandsStrategy) analyzeSymbol(symbol string, history []Candle) (Signal, bool) {
	closes := closesOf(history)
	bands := ComputeBollingerBands(closes, s.cfg.BBPeriod, s.cfg.BBStdDev)
	rsi := RSI(closes, s.cfg.RSIPeriod)
	roc := RateOfChange(bands.Bandwidth, s.cfg.ROCPeriod)

	t := len(history) - 1
	closeT := closes[t]
	rsiT := rsi[t]
	lowerT := bands.Lower[t]
	rocT := roc[t]

	st := s.symbolState(symbol)

	if !st.Stage1Armed {
		if math.IsNaN(lowerT) || math.IsNaN(rsiT) {
			return Signal{}, false
		}
		if closeT < lowerT && rsiT <= s.cfg.Stage1RSIThresh {
			st.Stage1Armed = true
		}
		return Signal{}, false
	}

	// Stage 2: confirm and fire, or disarm.
	if !math.IsNaN(rsiT) && rsiT > s.cfg.Stage2RSIExit+5 {
		st.Stage1Armed = false
		return Signal{}, false
	}

	if math.IsNaN(rsiT) || math.IsNaN(rocT) {
		return Signal{}, false
	}
	if rsiT < s.cfg.Stage2RSIEntry || rsiT >= s.cfg.Stage2RSIExit {
		return Signal{}, false
	}
	if rocT <= s.cfg.Stage2MinROC {
		return Signal{}, false
	}

	prev := history[t-1]
	cur := history[t]
	prevOpen, _ := prev.Open.Float64()
	prevClose, _ := prev.Close.Float64()
	open, _ := cur.Open.Float64()
	closeF, _ := cur.Close.Float64()
	if !isBullishEngulfing(prevOpen, prevClose, open, closeF) {
		return Signal{}, false
	}

	st.Stage1Armed = false
	return Signal{Kind: SignalBuy, Symbol: symbol, Price: cur.Close}, true
}
