package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AsignacionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_asignacion_transitions_total",
		Help: "Assignment state changes, by action and resulting state.",
	},
		[]string{"accion", "estado"},
	)

	NotificacionesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_notificaciones_total",
		Help: "Notification dispatch attempts, by channel, mode and outcome.",
	},
		[]string{"canal", "modo", "resultado"},
	)

	FichajeEditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_fichaje_edits_total",
		Help: "Time-clock writes, by origin (manual or qr).",
	},
		[]string{"origen"},
	)

	WebhookRepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_webhook_replies_total",
		Help: "WhatsApp webhook replies, by outcome.",
	},
		[]string{"resultado"},
	)

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffing_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)
