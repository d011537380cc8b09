package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parley_messages_sent_total",
		Help: "Total messages appended to conversations.",
	})
	MessagesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parley_messages_deleted_total",
		Help: "Total messages soft-deleted by their sender.",
	})
	ConversationsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_conversations_created_total",
		Help: "Total conversations created, by kind.",
	}, []string{"kind"})
	ReactionsToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_reactions_toggled_total",
		Help: "Total reaction toggles, by outcome (added/removed).",
	}, []string{"outcome"})

	WSOnline = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parley_ws_online_conns",
		Help: "Current websocket connections (approx).",
	})
	WSPushDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parley_ws_push_dropped_total",
		Help: "Total events dropped because a client egress queue was full.",
	})
)

func Register() {
	prometheus.MustRegister(
		MessagesSent, MessagesDeleted,
		ConversationsCreated, ReactionsToggled,
		WSOnline, WSPushDropped,
	)
}
