package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mate", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mate", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mate", Name: "origin_requests_total", Help: "Requests sent to the asset origin."},
		[]string{"origin", "kind", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mate", Name: "origin_request_duration_seconds",
			Help:    "Asset origin request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"origin", "kind"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mate", Name: "asset_cache_events_total", Help: "Asset cache hits/misses/commits/drops/installs."},
		[]string{"store", "event"}, // event: hit|miss|commit|drop|install_ok|install_fail
	)
	FeatureOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mate", Name: "feature_outcomes_total", Help: "Planner/composer/search/lookup outcomes."},
		[]string{"feature", "outcome"},
	)
)

// Serve exposes reg on a separate listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

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
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents, FeatureOutcomes)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one origin round trip. kind is "asset" or "data".
func ObserveExternal(origin, kind string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(origin, kind, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(origin, kind).Observe(dur.Seconds())
}

func ObserveCache(store, event string) {
	CacheEvents.WithLabelValues(store, event).Inc()
}

func ObserveFeature(feature, outcome string) {
	FeatureOutcomes.WithLabelValues(feature, outcome).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
