package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketActions is the total number of ticket lifecycle actions by
	// action and outcome.
	TicketActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_actions_total",
			Help: "Total number of ticket lifecycle actions",
		},
		[]string{"action", "outcome"},
	)

	// TicketActionDuration is the duration of ticket lifecycle actions.
	TicketActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ticketing_action_duration",
			Help: "Duration of ticket lifecycle actions",
		},
		[]string{"action"},
	)
)
