package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/familytrip/tripplanner/internal/event_bus"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// Metrics are registered on their own registry so every Application can be built more than once.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	itinerarySaves  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripplanner_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		itinerarySaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_itinerary_saves_total",
			Help: "Itinerary day saves, split by whether the day still has entries.",
		}, []string{"has_content"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveItinerarySaves counts saves announced on bus.
func (m *Metrics) ObserveItinerarySaves(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.TypeItineraryDaySaved, func(e event_bus.EventT[event_bus.ItineraryDaySaved]) error {
		m.itinerarySaves.WithLabelValues(strconv.FormatBool(e.Data.HasContent)).Inc()
		return nil
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Request logging and metrics
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, req)
			elapsed := time.Since(start)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			deps.Metrics.requests.WithLabelValues(route, req.Method, strconv.Itoa(recorder.status)).Inc()
			deps.Metrics.requestDuration.WithLabelValues(route, req.Method).Observe(elapsed.Seconds())

			entry := log.WithFields(log.Fields{
				"method":   req.Method,
				"route":    route,
				"status":   recorder.status,
				"duration": elapsed,
			})
			if recorder.status >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Debug("request served")
			}
		})
	})
}
