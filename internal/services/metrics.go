package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tripsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "travbud",
		Name:      "trips_created_total",
		Help:      "Trips created.",
	})

	participationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travbud",
		Name:      "trip_participation_events_total",
		Help:      "Join requests, cancellations and approvals by outcome.",
	}, []string{"action", "outcome"})
)

func recordParticipation(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	participationEvents.WithLabelValues(action, outcome).Inc()
}
