// Package metrics provides Prometheus metrics for the lights service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lights",
		Name:      "requests_total",
		Help:      "SetLight requests by light type and resulting status",
	}, []string{"type", "status"})

	storeWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lights",
		Subsystem: "store",
		Name:      "write_errors_total",
		Help:      "Failed hardware attribute writes",
	}, []string{"channel", "attribute"})

	storeReadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lights",
		Subsystem: "store",
		Name:      "read_errors_total",
		Help:      "Failed max brightness reads replaced by defaults",
	}, []string{"channel"})

	activeNotification = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lights",
		Name:      "active_notification",
		Help:      "1 for the notification type currently driving the LED, 0 otherwise",
	}, []string{"type"})
)

// ObserveRequest counts one SetLight request.
func ObserveRequest(lightType, status string) {
	requestsTotal.WithLabelValues(lightType, status).Inc()
}

// ObserveWriteError counts one failed attribute write.
func ObserveWriteError(channel, attribute string) {
	storeWriteErrors.WithLabelValues(channel, attribute).Inc()
}

// ObserveReadError counts one failed max brightness read.
func ObserveReadError(channel string) {
	storeReadErrors.WithLabelValues(channel).Inc()
}

// SetActiveNotification marks active as the winning type among all.
func SetActiveNotification(active string, all []string) {
	for _, name := range all {
		value := 0.0
		if name == active {
			value = 1
		}
		activeNotification.WithLabelValues(name).Set(value)
	}
}

// Handler returns the Prometheus metrics HTTP handler.
// This collects all promauto-registered metrics automatically.
func Handler() http.Handler {
	return promhttp.Handler()
}
