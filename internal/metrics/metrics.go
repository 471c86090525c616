package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paintshop"

// 通知タスクの結果ラベル
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	LatencyMS    *prometheus.HistogramVec
	NotifyTasks  *prometheus.CounterVec
	NotifyQueued prometheus.Gauge
}

// New は専用レジストリに登録する（テストで何度作っても衝突しない）
func New() *Metrics {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	tasks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "tasks_total",
		Help:      "Notification tasks by name and result.",
	}, []string{"task", "result"})
	queued := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "queue_length",
		Help:      "Tasks waiting in the notification queue.",
	})

	reg.MustRegister(
		requests, latency, tasks, queued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:     reg,
		Requests:     requests,
		LatencyMS:    latency,
		NotifyTasks:  tasks,
		NotifyQueued: queued,
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// /metrics 用
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
