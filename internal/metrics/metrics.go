package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for consultation booking.
type BookingMetrics struct {
	bookedTotal     *prometheus.CounterVec
	conflictsTotal  prometheus.Counter
	transitions     *prometheus.CounterVec
	confirmDuration prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "booking",
			Name:      "consultations_booked_total",
			Help:      "Total consultations booked",
		}, []string{"type", "emergency"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "booking",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the slot was already scheduled",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Consultation status transitions",
		}, []string{"status"}),
		confirmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sehat",
			Subsystem: "booking",
			Name:      "confirm_duration_seconds",
			Help:      "Time spent waiting for the scheduling service to acknowledge a booking",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookedTotal, m.conflictsTotal, m.transitions, m.confirmDuration)
	return m
}

func (m *BookingMetrics) ObserveBooked(consultationType string, emergency bool) {
	if m == nil {
		return
	}
	m.bookedTotal.WithLabelValues(consultationType, strconv.FormatBool(emergency)).Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *BookingMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveConfirmDuration(seconds float64) {
	if m == nil {
		return
	}
	m.confirmDuration.Observe(seconds)
}

// HTTPMetrics counts API requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sehat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sehat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(seconds)
}
