package carousel

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles Prometheus collectors for navigation and list loads.
type Metrics struct {
	NavigationsTotal *prometheus.CounterVec
	ReloadsTotal     *prometheus.CounterVec
}

// NewMetrics constructs the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	navigations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_navigation_requests_total",
			Help: "Navigation requests by result (accepted or dropped).",
		},
		[]string{"result"},
	)
	reloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_reloads_total",
			Help: "Recommendation list loads by result.",
		},
		[]string{"result"},
	)

	if reg != nil {
		reg.MustRegister(navigations, reloads)
	}

	return &Metrics{
		NavigationsTotal: navigations,
		ReloadsTotal:     reloads,
	}
}

// IncNavigation counts one navigation request.
func (m *Metrics) IncNavigation(result string) {
	if m == nil {
		return
	}
	m.NavigationsTotal.WithLabelValues(result).Inc()
}

// IncReload counts one list load.
func (m *Metrics) IncReload(result string) {
	if m == nil {
		return
	}
	m.ReloadsTotal.WithLabelValues(result).Inc()
}
