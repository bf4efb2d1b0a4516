package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP metrics.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Exchange metrics.
	OrdersSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_orders_submitted_total",
			Help: "Total number of order submissions by type, direction, and outcome",
		},
		[]string{"type", "direction", "outcome"},
	)
	OrdersCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exchange_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		},
	)
	TradesExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_trades_executed_total",
			Help: "Total number of trades executed per ticker",
		},
		[]string{"ticker"},
	)
	TradedVolumeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_traded_volume_total",
			Help: "Total traded quantity per ticker",
		},
		[]string{"ticker"},
	)
)

// Init registers all collectors with the default prometheus registry.
// Call once at startup, before the HTTP server starts serving /metrics.
func Init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)

	prometheus.MustRegister(OrdersSubmittedTotal)
	prometheus.MustRegister(OrdersCancelledTotal)
	prometheus.MustRegister(TradesExecutedTotal)
	prometheus.MustRegister(TradedVolumeTotal)
}
