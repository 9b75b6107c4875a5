// Package metrics exposes conversion counters and latencies in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	fetch    prometheus.Histogram
	convert  prometheus.Histogram
}

func New() *Metrics {

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astcbot",
			Name:      "requests_total",
			Help:      "Item requests by server and outcome.",
		}, []string{"server", "outcome"}),
		fetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astcbot",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent downloading textures from the CDN.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 8},
		}),
		convert: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astcbot",
			Name:      "convert_duration_seconds",
			Help:      "Time spent running the texture decoder.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 8},
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.fetch,
		m.convert,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest counts one finished request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(server string, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(server, outcome).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetch.Observe(d.Seconds())
}

func (m *Metrics) ObserveConvert(d time.Duration) {
	if m == nil {
		return
	}
	m.convert.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
