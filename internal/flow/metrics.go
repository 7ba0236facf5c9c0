package flow

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Quiz creation submissions by outcome",
		},
		[]string{"outcome"},
	)
	SubmissionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_submissions_in_flight",
			Help: "Outbound creation requests currently pending",
		},
	)
	FlowsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_flows_active",
			Help: "Creation flows held by the registry",
		},
	)
)

const (
	outcomeInvalid   = "invalid"
	outcomeInFlight  = "in_flight"
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeClosed    = "closed"
)

func init() {
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(SubmissionsInFlight)
	prometheus.MustRegister(FlowsActive)
}
