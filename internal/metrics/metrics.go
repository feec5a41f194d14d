// Package metrics — счётчики сервиса сводки для Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kp-summary/internal/reconcile/model"
)

const namespace = "kpsummary"

// Metrics держит собственный реестр, чтобы тесты и несколько роутеров не конфликтовали.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	rows        *prometheus.CounterVec
	virtual     prometheus.Counter
	suppliers   prometheus.Histogram
	runDuration prometheus.Histogram
}

// New регистрирует метрики; withRuntime добавляет go_* и process_*.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}
	m := &Metrics{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Summary builds by outcome (ok, invalid, error).",
		}, []string{"outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows emitted into summary tables by kind.",
		}, []string{"kind"}),
		virtual: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "virtual_anchors_total",
			Help:      "Groups created for offers without a matching requested product.",
		}),
		suppliers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suppliers_per_run",
			Help:      "Supplier sheets per summary build.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time to read, reconcile and render one workbook.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
	reg.MustRegister(m.runs, m.rows, m.virtual, m.suppliers, m.runDuration)
	for _, o := range []string{OutcomeOK, OutcomeInvalid, OutcomeError} {
		m.runs.WithLabelValues(o)
	}
	return m
}

// Исходы запуска.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// ObserveTable учитывает успешно построенную таблицу.
func (m *Metrics) ObserveTable(tbl model.Table, dur time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(OutcomeOK).Inc()
	m.runDuration.Observe(dur.Seconds())
	m.suppliers.Observe(float64(len(tbl.Suppliers)))
	for _, r := range tbl.Rows {
		m.rows.WithLabelValues(string(r.Kind)).Inc()
		if r.Kind == model.KindAnchor && r.Virtual {
			m.virtual.Inc()
		}
	}
}

// ObserveFailure учитывает неуспешный запуск.
func (m *Metrics) ObserveFailure(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(dur.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry — для тестов и дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
