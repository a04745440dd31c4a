package client

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MonikaTammineni/fsadproject/apierr"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fsad_client",
			Name:      "requests_total",
			Help:      "SDK operations by name and outcome.",
		},
		[]string{"op", "outcome"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fsad_client",
			Name:      "mutations_total",
			Help:      "Mutations run through the executor, by shard label and outcome.",
		},
		[]string{"shard", "outcome"},
	)

	mutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fsad_client",
			Name:      "mutation_duration_seconds",
			Help:      "Time from queueing a mutation to its result.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)
)

// outcome maps an error to a low-cardinality label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrNotLoggedIn):
		return "no_session"
	case errors.Is(err, ErrBackPressure):
		return "back_pressure"
	default:
		return apierr.KindOf(err).String()
	}
}

// observe counts one operation and passes err through.
func observe(op string, err error) error {
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
	return err
}
