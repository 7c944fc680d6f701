// Package metrics exposes Prometheus counters for the event pipeline. Skips
// are silent at the stream level, so the counters are the primary way to
// observe them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EventsProcessed *prometheus.CounterVec
	EventsSkipped   *prometheus.CounterVec
}

// Skip reasons.
const (
	ReasonMissingEntity = "missing_entity"
	ReasonSkipList      = "skip_list"
	ReasonUnknownChain  = "unknown_chain"
	ReasonPreload       = "preload"
)

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "split_indexer",
			Name:      "events_processed_total",
			Help:      "Events fully applied to the entity store, by kind.",
		}, []string{"kind"}),
		EventsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "split_indexer",
			Name:      "events_skipped_total",
			Help:      "Events dropped or partially applied, by kind and reason.",
		}, []string{"kind", "reason"}),
	}
}

func (m *Metrics) Processed(kind string) {
	if m == nil {
		return
	}
	m.EventsProcessed.WithLabelValues(kind).Inc()
}

func (m *Metrics) Skipped(kind, reason string) {
	if m == nil {
		return
	}
	m.EventsSkipped.WithLabelValues(kind, reason).Inc()
}
