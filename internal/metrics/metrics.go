package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ticketOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bancas_ticket_operations_total",
			Help: "Ticket writes by operation and engine estado.",
		},
		[]string{"operation", "estado"},
	)

	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bancas_auth_failures_total",
			Help: "Rejected requests at the auth gate by error code.",
		},
		[]string{"code"},
	)

	reconciliationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bancas_round_reconciliation_runs_total",
			Help: "generar_jornadas runs by result.",
		},
		[]string{"result"},
	)

	reconciliationAlerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bancas_round_reconciliation_last_alerts",
		Help: "Alerts reported by the last successful generar_jornadas run.",
	})
)

var registerOnce sync.Once

// Init registers every collector in the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ticketOutcomes,
			authFailures,
			reconciliationRuns,
			reconciliationAlerts,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Ticket operations.
const (
	OpCreate    = "crear"
	OpSuperPale = "super_pale"
	OpVoid      = "anular"
	OpPay       = "pagar"
)

// ObserveTicket counts a ticket write. estado is "error" for infrastructure failures.
func ObserveTicket(operation, estado string) {
	ticketOutcomes.WithLabelValues(operation, estado).Inc()
}

func ObserveAuthFailure(code string) {
	authFailures.WithLabelValues(code).Inc()
}

func ObserveReconciliation(err error, alerts int) {
	if err != nil {
		reconciliationRuns.WithLabelValues("error").Inc()
		return
	}

	reconciliationRuns.WithLabelValues("ok").Inc()
	reconciliationAlerts.Set(float64(alerts))
}
