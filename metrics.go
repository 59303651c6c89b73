// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Registration/helper shape is grounded directly on the teacher's
// metrics.go (package-level CounterVec/GaugeVec registered in init(),
// thin Inc/Set helper functions); relabeled from a single-symbol bot's
// metric names to this engine's per-symbol/per-reason shape.
package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_total",
			Help: "Orders placed, by mode (paper|live) and side.",
		},
		[]string{"mode", "side"},
	)

	mtxSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_signals_total",
			Help: "Strategy signals emitted, by symbol.",
		},
		[]string{"symbol"},
	)

	mtxActivePositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_active_positions",
			Help: "Number of currently tracked active orders.",
		},
	)

	mtxExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_exits_total",
			Help: "Exits closed, by reason and symbol.",
		},
		[]string{"reason", "symbol"},
	)

	mtxRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rejections_total",
			Help: "Place() calls that did not result in an accepted order, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(mtxOrders, mtxSignals, mtxActivePositions, mtxExits, mtxRejections)
}

func IncOrder(mode, side string)       { mtxOrders.WithLabelValues(mode, side).Inc() }
func IncSignal(symbol string)          { mtxSignals.WithLabelValues(symbol).Inc() }
func SetActivePositions(n int)         { mtxActivePositions.Set(float64(n)) }
func IncExit(reason, symbol string)    { mtxExits.WithLabelValues(reason, symbol).Inc() }
func IncRejection(reason string)       { mtxRejections.WithLabelValues(reason).Inc() }
