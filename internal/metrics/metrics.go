// Package metrics exposes the Prometheus instrumentation for the
// service. Everything registers on the default registry and is served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesStarted counts new human-versus-AI games.
	MatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "connect4",
		Subsystem: "match",
		Name:      "started_total",
		Help:      "Total human-versus-AI matches started",
	})

	// MatchesFinished counts finished games by outcome.
	// Labels: outcome (user, ai, draw)
	MatchesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect4",
		Subsystem: "match",
		Name:      "finished_total",
		Help:      "Total matches finished, by outcome",
	}, []string{"outcome"})

	// MovesPlayed counts committed moves by mover.
	// Labels: mover (human, ai)
	MovesPlayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect4",
		Subsystem: "match",
		Name:      "moves_total",
		Help:      "Total moves committed to live boards",
	}, []string{"mover"})

	// AIDecisionDuration measures how long the strategy stack takes to
	// pick a move.
	AIDecisionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "connect4",
		Subsystem: "ai",
		Name:      "decision_seconds",
		Help:      "Strategy stack decision latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})

	// ActiveMatches tracks the number of live sessions.
	ActiveMatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "connect4",
		Subsystem: "match",
		Name:      "active_sessions",
		Help:      "Live match sessions held in memory",
	})

	// SimGames counts simulated games by winner.
	// Labels: winner (a, b, draw)
	SimGames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect4",
		Subsystem: "sim",
		Name:      "games_total",
		Help:      "Total simulated games, by winner",
	}, []string{"winner"})

	// WebsocketConnections tracks open websocket connections.
	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "connect4",
		Subsystem: "transport",
		Name:      "websocket_connections",
		Help:      "Currently open websocket connections",
	})
)
