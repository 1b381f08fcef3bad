package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bombalarm_poll_cycles_total",
		Help: "Total number of feed poll cycles",
	})
	pollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bombalarm_poll_errors_total",
		Help: "Total number of failed feed polls",
	})
	alertsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bombalarm_alerts_delivered_total",
		Help: "Total number of alerts delivered to the webhook",
	})
	deliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bombalarm_delivery_failures_total",
		Help: "Total number of failed webhook deliveries",
	})
	alertsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bombalarm_alerts_skipped_total",
		Help: "Total number of feed records skipped, by reason",
	}, []string{"reason"})
)

const (
	skipDuplicate      = "duplicate"
	skipNotBombRelated = "not_bomb_related"
	skipAllClear       = "all_clear"
)
