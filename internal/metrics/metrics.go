package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "bms_proxy_"

// Result labels shared by vendor and login metrics.
const (
	ResultSuccess     = "success"
	ResultVendorError = "vendor_error"
	ResultHTTPError   = "http_error"
	ResultUnreachable = "unreachable"
	ResultExpired     = "expired"
	ResultRejected    = "rejected"
	ResultSkipped     = "skipped"
)

var (
	registerOnce sync.Once

	vendorRequests *prometheus.CounterVec
	vendorLatency  *prometheus.HistogramVec

	loginTotal     *prometheus.CounterVec
	sessionExpired prometheus.Counter
	sessionActive  prometheus.Gauge

	pollTotal *prometheus.CounterVec
)

// Init registers the proxy collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		vendorRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "vendor_requests_total",
				Help: "Vendor calls by command and result",
			},
			[]string{"command", "result"},
		)
		vendorLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "vendor_request_seconds",
				Help:    "Vendor call latency in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"command"},
		)
		loginTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "vendor_logins_total",
				Help: "Vendor login attempts by result",
			},
			[]string{"result"},
		)
		sessionExpired = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "vendor_session_expired_total",
				Help: "Vendor sessions invalidated by a 401",
			},
		)
		sessionActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "vendor_session_active",
				Help: "1 while a vendor session is held",
			},
		)
		pollTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_polls_total",
				Help: "Background status polls by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			vendorRequests,
			vendorLatency,
			loginTotal,
			sessionExpired,
			sessionActive,
			pollTotal,
		)
	})
}

// ObserveVendorRequest records one forwarded call.
func ObserveVendorRequest(command, result string, elapsed time.Duration) {
	if vendorRequests == nil {
		return
	}
	vendorRequests.WithLabelValues(command, result).Inc()
	vendorLatency.WithLabelValues(command).Observe(elapsed.Seconds())
}

// IncLogin counts a login attempt.
func IncLogin(result string) {
	if loginTotal == nil {
		return
	}
	loginTotal.WithLabelValues(result).Inc()
}

// IncSessionExpired counts a session dropped after a vendor 401.
func IncSessionExpired() {
	if sessionExpired == nil {
		return
	}
	sessionExpired.Inc()
}

// SetSessionActive flips the session gauge.
func SetSessionActive(active bool) {
	if sessionActive == nil {
		return
	}
	if active {
		sessionActive.Set(1)
		return
	}
	sessionActive.Set(0)
}

// IncPoll counts a background poll tick.
func IncPoll(result string) {
	if pollTotal == nil {
		return
	}
	pollTotal.WithLabelValues(result).Inc()
}
