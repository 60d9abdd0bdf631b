package observability

import (
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors describing transformations.
type Metrics struct {
	Transforms *prometheus.CounterVec
	Sentences  *prometheus.CounterVec
	GraphNodes prometheus.Histogram
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transforms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ucflow_transforms_total",
				Help: "Total number of use case transformations",
			},
			[]string{"mode", "outcome"},
		),
		Sentences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ucflow_sentences_lowered_total",
				Help: "Total number of sentences lowered into the activity graph",
			},
			[]string{"kind"},
		),
		GraphNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ucflow_graph_nodes",
				Help:    "Number of nodes in produced activity graphs",
				Buckets: prometheus.ExponentialBuckets(4, 2, 8),
			},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ucflow_transform_duration_seconds",
				Help: "Duration of use case transformations",
			},
			[]string{"mode"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transforms, m.Sentences, m.GraphNodes, m.Duration)
	}
	return m
}

// Hooks returns transform hooks that record into m.
func (m *Metrics) Hooks() transform.Hooks {
	return transform.Hooks{
		OnSentence: func(ev transform.SentenceEvent) {
			m.Sentences.WithLabelValues(string(ev.Kind)).Inc()
		},
		OnComplete: func(ev transform.CompleteEvent) {
			outcome := "success"
			if ev.Err != nil {
				outcome = "failure"
			}
			mode := ev.Mode.String()
			m.Transforms.WithLabelValues(mode, outcome).Inc()
			m.Duration.WithLabelValues(mode).Observe(ev.Duration.Seconds())
			if ev.Err == nil {
				m.GraphNodes.Observe(float64(ev.Nodes))
			}
		},
	}
}

// Chain combines hooks so each callback runs in order.
func Chain(hooks ...transform.Hooks) transform.Hooks {
	return transform.Hooks{
		OnSentence: func(ev transform.SentenceEvent) {
			for _, h := range hooks {
				if h.OnSentence != nil {
					h.OnSentence(ev)
				}
			}
		},
		OnComplete: func(ev transform.CompleteEvent) {
			for _, h := range hooks {
				if h.OnComplete != nil {
					h.OnComplete(ev)
				}
			}
		},
	}
}
