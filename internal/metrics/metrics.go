package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	StatementRequests *prometheus.CounterVec
	Regenerations     *prometheus.CounterVec
	IFSCLookups       *prometheus.CounterVec
	OTPIssued         prometheus.Counter
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			StatementRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statement_requests_total",
				Help:      "Total statement reads by result.",
			}, []string{"result"}),
			Regenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "regenerations_total",
				Help:      "Total regeneration decisions by outcome.",
			}, []string{"outcome"}),
			IFSCLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ifsc_lookups_total",
				Help:      "Total IFSC validator lookups by status.",
			}, []string{"status"}),
			OTPIssued: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "otp_issued_total",
				Help:      "Total OTPs generated.",
			}),
		}

		prometheus.MustRegister(
			metricsInstance.StatementRequests,
			metricsInstance.Regenerations,
			metricsInstance.IFSCLookups,
			metricsInstance.OTPIssued,
		)
	})
	return metricsInstance
}
