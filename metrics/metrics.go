package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clipconvert"

// Skip reasons
const (
	SkipUnchanged = "unchanged"
	SkipNoAmount  = "no_amount"
)

// Failure kinds
const (
	FailureSourceRead = "source_read"
	FailureUnexpected = "unexpected"
)

// Metrics holds the collectors for the monitor pipeline and rate refreshes.
type Metrics struct {
	Polls          prometheus.Counter
	Conversions    *prometheus.CounterVec
	Skips          *prometheus.CounterVec
	Failures       *prometheus.CounterVec
	ResultsDropped prometheus.Counter

	RateRefreshes *prometheus.CounterVec
	Rates         *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Polls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Number of text source reads.",
		}),
		Conversions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Number of amounts converted into the reference currency.",
		}, []string{"currency"}),
		Skips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Number of observations that produced no result.",
		}, []string{"reason"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of failed poll cycles.",
		}, []string{"kind"}),
		ResultsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_dropped_total",
			Help:      "Number of queued results discarded because the consumer fell behind.",
		}),
		RateRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_refreshes_total",
			Help:      "Number of rate refreshes by outcome.",
		}, []string{"outcome"}),
		Rates: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate",
			Help:      "Current rate per unit of the reference currency.",
		}, []string{"currency"}),
	}
}
