package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emagent_emails_total",
			Help: "Analyzed emails by classified type and outcome",
		},
		[]string{"type", "outcome"}, // DEVIS|RELANCE_PAIEMENT|... , success|failure
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emagent_llm_request_duration_seconds",
			Help:    "Wall time of model calls by pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"call"}, // classify|generate
	)

	QuoteParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emagent_quote_parse_failures_total",
			Help: "DEVIS outputs whose quote segment could not be decoded",
		},
	)

	QuoteArithmeticMismatch = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emagent_quote_arithmetic_mismatch_total",
			Help: "Decoded quotes whose totals violate the prompt arithmetic",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		EmailsTotal,
		LLMRequestDuration,
		QuoteParseFailures,
		QuoteArithmeticMismatch,
	)
}
