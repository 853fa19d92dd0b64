package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics métricas del programador. Un *Metrics nil no registra nada.
type Metrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	created  prometheus.Counter
	lowStock prometheus.Gauge
}

// NewMetrics registra las métricas en reg. Con reg nil devuelve métricas inertes.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "replenishment_scheduler_run_duration_seconds",
			Help:    "Duración de cada corrida del planificador automático.",
			Buckets: prometheus.DefBuckets,
		}, []string{"trigger"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "replenishment_scheduler_runs_total",
			Help: "Corridas del planificador automático por disparador y resultado.",
		}, []string{"trigger", "result"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "replenishment_auto_purchase_requests_total",
			Help: "Solicitudes de compra creadas automáticamente.",
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "replenishment_low_stock_locations",
			Help: "Ubicaciones bajo su mínimo efectivo en la última corrida.",
		}),
	}
	reg.MustRegister(m.duration, m.runs, m.created, m.lowStock)
	return m
}

func (m *Metrics) observe(trigger string, d time.Duration, err error, created, lowStock int) {
	if m == nil || m.duration == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.duration.WithLabelValues(trigger).Observe(d.Seconds())
	m.runs.WithLabelValues(trigger, result).Inc()
	m.created.Add(float64(created))
	if err == nil {
		m.lowStock.Set(float64(lowStock))
	}
}
