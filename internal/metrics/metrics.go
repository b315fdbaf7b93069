// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TandasCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tanda_tandas_created_total",
		Help: "Number of tandas created.",
	})

	Deposits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tanda_deposits_total",
		Help: "Number of successful cycle deposits.",
	})

	Payouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tanda_payouts_total",
		Help: "Number of cycle payouts sent.",
	})

	Expulsions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tanda_expulsions_total",
		Help: "Number of members expelled for delinquency.",
	})

	AdvanceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tanda_advance_calls_total",
		Help: "Advance calls by outcome.",
	}, []string{"outcome"}) // changed | noop
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
