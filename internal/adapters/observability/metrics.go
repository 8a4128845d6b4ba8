package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "barrio", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "barrio", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	SessionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "barrio", Name: "session_events_total", Help: "Session store hits/misses/sets/dels."},
		[]string{"event"}, // event: hit|miss|set|del
	)
	ModerationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "barrio", Name: "moderation_events_total", Help: "Review moderation outcomes."},
		[]string{"action"}, // action: approve|remove
	)
	ReviewSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "barrio", Name: "review_submissions_total", Help: "Review submissions by outcome."},
		[]string{"outcome"}, // outcome: accepted|rejected
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, SessionEvents, ModerationEvents, ReviewSubmissions)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveSession(event string) { // event: hit|miss|set|del
	SessionEvents.WithLabelValues(event).Inc()
}

func ObserveModeration(action string) { // action: approve|remove
	ModerationEvents.WithLabelValues(action).Inc()
}

func ObserveSubmission(outcome string) { // outcome: accepted|rejected
	ReviewSubmissions.WithLabelValues(outcome).Inc()
}
