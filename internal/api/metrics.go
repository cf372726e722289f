package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

type Metrics struct {
	tasksScored  *prometheus.CounterVec
	finalScore   prometheus.Histogram
	enhancements *prometheus.CounterVec
}

// NewMetrics registers the readiness collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tasksScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readiness_tasks_scored_total",
			Help: "Tasks scored, by resulting category.",
		}, []string{"category"}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "readiness_final_score",
			Help:    "Distribution of composite readiness scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		enhancements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readiness_enhancements_total",
			Help: "Enhancement calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
	reg.MustRegister(m.tasksScored, m.finalScore, m.enhancements)
	return m
}

func (m *Metrics) observeScore(s scoring.TaskScore) {
	if m == nil {
		return
	}
	m.tasksScored.WithLabelValues(string(s.Category)).Inc()
	m.finalScore.Observe(float64(s.FinalScore))
}

func (m *Metrics) observeEnhancement(provider, outcome string) {
	if m == nil {
		return
	}
	m.enhancements.WithLabelValues(provider, outcome).Inc()
}
