// Package metrics exposes the shape of the served reference graph as
// Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/graph"
)

const namespace = "zgraph"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	notes       prometheus.Gauge
	references  prometheus.Gauge
	isolated    prometheus.Gauge
	components  prometheus.Gauge
	diagnostics *prometheus.GaugeVec
	rebuilds    prometheus.Counter
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		notes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notes",
			Help:      "Number of notes in the current graph",
		}),
		references: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "references",
			Help:      "Number of resolved references between notes",
		}),
		isolated: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "isolated_notes",
			Help:      "Notes with no incoming or outgoing references",
		}),
		components: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "components",
			Help:      "Connected components of the undirected graph",
		}),
		// Labels: kind (unresolved, ambiguous, skipped, duplicate_key)
		diagnostics: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "diagnostics",
			Help:      "Diagnostics produced by the last build, by kind",
		}, []string{"kind"}),
		rebuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Graph rebuilds that produced a new snapshot",
		}),
	}
}

// Observe records the outcome of a published build.
func (m *Metrics) Observe(s graph.Stats, diags []diag.Diagnostic) {
	m.notes.Set(float64(s.Nodes))
	m.references.Set(float64(s.Edges))
	m.isolated.Set(float64(len(s.Isolated)))
	m.components.Set(float64(s.Components))

	counts := diag.Count(diags)
	for _, k := range []diag.Kind{diag.KindUnresolved, diag.KindAmbiguous, diag.KindSkipped, diag.KindDuplicateKey} {
		m.diagnostics.WithLabelValues(string(k)).Set(float64(counts[k]))
	}
	m.rebuilds.Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
