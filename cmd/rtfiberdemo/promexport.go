package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tobiaswallner/rtfiber"
)

// promExporter periodically snapshots a Scheduler's SchedulerMetrics into
// Prometheus gauges, grounded on the teacher pack's PrometheusExporter
// (ai/metrics/prometheus.go): a registry plus one gauge per measurement,
// served over promhttp.Handler.
type promExporter struct {
	sched *rtfiber.Scheduler

	waiting  prometheus.Gauge
	running  prometheus.Gauge
	awaiting prometheus.Gauge
	rate     prometheus.Gauge
	p50      prometheus.Gauge
	p99      prometheus.Gauge
}

func newPromExporter(registry *prometheus.Registry, sched *rtfiber.Scheduler) *promExporter {
	e := &promExporter{
		sched: sched,
		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "queue_waiting", Help: "Tasks in the waiting queue.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "queue_running", Help: "Tasks in the running queue.",
		}),
		awaiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "queue_await", Help: "Tasks in the await bag.",
		}),
		rate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "dispatch_rate", Help: "Dispatches per second, rolling window.",
		}),
		p50: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "dispatch_lateness_p50_seconds", Help: "Median dispatch lateness.",
		}),
		p99: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rtfiber", Name: "dispatch_lateness_p99_seconds", Help: "99th percentile dispatch lateness.",
		}),
	}
	registry.MustRegister(e.waiting, e.running, e.awaiting, e.rate, e.p50, e.p99)
	return e
}

// refresh pulls the Scheduler's current metrics snapshot into the gauges.
// Called from the handler so every scrape reflects the latest Spin cycle.
func (e *promExporter) refresh() {
	m := e.sched.Metrics()
	if m == nil {
		return
	}
	e.waiting.Set(float64(m.Queue.WaitingCurrent))
	e.running.Set(float64(m.Queue.RunningCurrent))
	e.awaiting.Set(float64(m.Queue.AwaitCurrent))
	e.rate.Set(m.Rate.Rate())
	if m.Lateness.Sample() > 0 {
		e.p50.Set(m.Lateness.P50.Seconds())
		e.p99.Set(m.Lateness.P99.Seconds())
	}
}

func (e *promExporter) handler(registry *prometheus.Registry) http.Handler {
	base := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.refresh()
		base.ServeHTTP(w, r)
	})
}
