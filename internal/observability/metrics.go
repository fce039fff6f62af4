// Package observability exposes Prometheus metrics for the dialogue engine
// and prediction pipeline.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	turnsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hydracoach",
		Subsystem: "dialog",
		Name:      "turns_total",
		Help:      "Dialogue turns processed, labeled by the phase that handled them.",
	}, []string{"phase"})

	chatDelegateTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hydracoach",
		Subsystem: "dialog",
		Name:      "chat_delegate_turns_total",
		Help:      "Turns delegated to the free-text chat backend.",
	})

	predictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hydracoach",
		Subsystem: "prediction",
		Name:      "predictions_total",
		Help:      "Completed predictions, labeled by whether the model served them.",
	}, []string{"source"})

	validationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hydracoach",
		Subsystem: "dialog",
		Name:      "validation_failures_total",
		Help:      "Slot validation failures, labeled by slot.",
	}, []string{"slot"})
)

func init() {
	prometheus.MustRegister(turnsTotal, chatDelegateTotal, predictionsTotal, validationFailuresTotal)
}

// RecordTurn counts a processed dialogue turn for a phase.
func RecordTurn(phase string) {
	if phase == "" {
		phase = "NONE"
	}
	turnsTotal.WithLabelValues(phase).Inc()
}

// RecordChatDelegate counts a turn handed to the chat backend.
func RecordChatDelegate() {
	chatDelegateTotal.Inc()
}

// RecordPrediction counts a completed prediction by its source.
func RecordPrediction(modelUsed bool) {
	source := "fallback"
	if modelUsed {
		source = "model"
	}
	predictionsTotal.WithLabelValues(source).Inc()
}

// RecordValidationFailure counts a slot validation failure.
func RecordValidationFailure(slot string) {
	validationFailuresTotal.WithLabelValues(slot).Inc()
}
