package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var uptimeDesc = prometheus.NewDesc(
	prometheus.BuildFQName(namespace, "", "uptime_seconds"),
	"Seconds since the process started.",
	nil, nil,
)

// Describe sends nothing: counters appear at runtime, so the aggregator is
// registered as an unchecked collector.
func (a *Aggregator) Describe(chan<- *prometheus.Desc) {}

// Collect exports every counter as storefront_<name>.
func (a *Aggregator) Collect(ch chan<- prometheus.Metric) {
	for _, name := range a.Names() {
		v, _ := a.Value(name).Float64()
		desc := prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), "Storefront counter "+name+".", nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, v)
	}
	ch <- prometheus.MustNewConstMetric(uptimeDesc, prometheus.GaugeValue, a.Uptime().Seconds())
}

// NewRegistry returns a private registry holding the aggregator and the Go
// runtime and process collectors.
func NewRegistry(a *Aggregator) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		a,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
