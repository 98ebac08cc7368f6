package app

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jaminalder/gamey/internal/domain"
)

var (
	GamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamey_games_started_total",
			Help: "Total games started",
		},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamey_games_finished_total",
			Help: "Total games finished, by winner",
		},
		[]string{"winner"},
	)
	MovesApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamey_moves_total",
			Help: "Total accepted placements, by source",
		},
		[]string{"source"},
	)
	MovesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamey_moves_rejected_total",
			Help: "Total rejected placements, by reason",
		},
		[]string{"reason"},
	)
	BotDecision = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamey_bot_decision_seconds",
			Help:    "Time spent by a strategy choosing a move",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"strategy"},
	)
	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamey_subscribers",
			Help: "Live board update subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(MovesApplied)
	prometheus.MustRegister(MovesRejected)
	prometheus.MustRegister(BotDecision)
	prometheus.MustRegister(Subscribers)
}

func rejectReason(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrGameAlreadyFinished):
		return "finished", true
	case errors.Is(err, domain.ErrWrongTurn):
		return "wrong_turn", true
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return "invalid_coordinate", true
	case errors.Is(err, domain.ErrCellOccupied):
		return "occupied", true
	default:
		return "", false
	}
}

// countRejected counts moves the rules refused. Missing games and bots that
// cannot move are not rejections.
func countRejected(err error) {
	if reason, ok := rejectReason(err); ok {
		MovesRejected.WithLabelValues(reason).Inc()
	}
}

func recordMove(g *domain.Game, source string) {
	MovesApplied.WithLabelValues(source).Inc()
	if w, ok := g.Winner(); ok {
		GamesFinished.WithLabelValues(strconv.Itoa(int(w))).Inc()
	}
}
