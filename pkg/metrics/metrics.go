package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	// Бизнес-метрики
	AppointmentsCancelled *prometheus.CounterVec
	RefundedAmount        *prometheus.CounterVec
	AppointmentsBooked    *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{"db"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{"db"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{"db"}),

		AppointmentsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_cancelled_total",
			Help:        "Cancelled appointments by policy tier and whether a refund was issued",
			ConstLabels: labels,
		}, []string{"tier", "refunded"}),

		RefundedAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "refunded_amount_total",
			Help:        "Sum of refunded amounts",
			ConstLabels: labels,
		}, []string{"currency"}),

		AppointmentsBooked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_booked_total",
			Help:        "Booked appointments by session type",
			ConstLabels: labels,
		}, []string{"session_type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.AppointmentsCancelled,
		m.RefundedAmount,
		m.AppointmentsBooked,
	)

	return m
}

// Handler возвращает HTTP handler для отдачи метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCancellation фиксирует отмену записи по тарифу политики
func (m *Metrics) ObserveCancellation(tier string, refunded bool, amount float64, currency string) {
	if m == nil {
		return
	}
	refundedLabel := "false"
	if refunded {
		refundedLabel = "true"
		m.RefundedAmount.WithLabelValues(currency).Add(amount)
	}
	m.AppointmentsCancelled.WithLabelValues(tier, refundedLabel).Inc()
}

// ObserveBooking фиксирует создание записи
func (m *Metrics) ObserveBooking(sessionType string) {
	if m == nil {
		return
	}
	m.AppointmentsBooked.WithLabelValues(sessionType).Inc()
}
