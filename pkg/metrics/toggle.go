package metrics

import "github.com/prometheus/client_golang/prometheus"

// ToggleMetrics counts optimistic mutation outcomes per feature.
type ToggleMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewToggleMetrics(reg prometheus.Registerer) *ToggleMetrics {
	if reg == nil {
		return &ToggleMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimistic_mutations_total",
		Help: "Optimistic mutations by feature and outcome.",
	}, []string{"feature", "outcome"})
	reg.MustRegister(outcomes)
	return &ToggleMetrics{outcomes: outcomes}
}

// IncOutcome increments the counter for a committed or rolled back mutation.
func (t *ToggleMetrics) IncOutcome(feature, outcome string) {
	if t == nil || t.outcomes == nil {
		return
	}
	t.outcomes.WithLabelValues(normalizeLabel(feature), normalizeLabel(outcome)).Inc()
}
