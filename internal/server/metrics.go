package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"smart-parking/internal/parking"
)

const metricsNamespace = "smart_parking"

type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)

	return &HTTPMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		// Unmatched paths share one label so scanners cannot blow up cardinality.
		route := routePattern(r)
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// SlotCollector reports slot occupancy by reading the lot on every scrape.
type SlotCollector struct {
	lot     parking.Lot
	timeout time.Duration
	slots   *prometheus.Desc
	up      *prometheus.Desc
}

func NewSlotCollector(lot parking.Lot) *SlotCollector {
	return &SlotCollector{
		lot:     lot,
		timeout: 5 * time.Second,
		slots: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "slots"),
			"Parking slots by occupancy and features",
			[]string{"state", "covered", "ev_charging"}, nil,
		),
		up: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "store_up"),
			"Whether the last slot store read succeeded",
			nil, nil,
		),
	}
}

func (c *SlotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.slots
	ch <- c.up
}

type slotKey struct {
	state      string
	covered    bool
	evCharging bool
}

func (c *SlotCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	slots, err := c.lot.ListSlots(ctx)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)

	counts := make(map[slotKey]int)
	for _, s := range slots {
		state := "free"
		if s.Occupied {
			state = "occupied"
		}
		counts[slotKey{state: state, covered: s.Covered, evCharging: s.EVCharging}]++
	}

	for k, n := range counts {
		ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(n),
			k.state, strconv.FormatBool(k.covered), strconv.FormatBool(k.evCharging))
	}
}
