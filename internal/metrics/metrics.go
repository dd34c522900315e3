package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InferenceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floodalert_inference_calls_total",
			Help: "Total calls to the flood inference service",
		},
		[]string{"status"},
	)

	PredictionsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "floodalert_predictions_saved_total",
			Help: "Total prediction records persisted",
		},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floodalert_alerts_sent_total",
			Help: "Alert delivery attempts by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	AlertDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floodalert_alert_dispatches_total",
			Help: "Alert dispatch runs by outcome",
		},
		[]string{"outcome"},
	)
)
