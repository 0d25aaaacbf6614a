package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "kiosk", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiosk", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "kiosk", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	ScanEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "kiosk", Name: "scans_total", Help: "Barcode scan results."},
		[]string{"result"}, // result: decoded|failed|duplicate|stale
	)
	DecodeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiosk", Name: "decode_duration_seconds",
			Help:    "Barcode image decode duration seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"engine"},
	)
	ScreenTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "kiosk", Name: "screen_transitions_total", Help: "Flow screen transitions."},
		[]string{"from", "to"},
	)
	Payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "kiosk", Name: "payments_total", Help: "Payment outcomes."},
		[]string{"method", "outcome"},
	)
	CameraActive = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "kiosk", Name: "camera_active", Help: "1 while a camera stream is open."},
	)
)

// Serve exposes /metrics for reg on a separate listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
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
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, ScanEvents, DecodeLatency,
		ScreenTransitions, Payments, CameraActive)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveScan(result string) { ScanEvents.WithLabelValues(result).Inc() }

func ObserveDecode(engine string, dur time.Duration) {
	DecodeLatency.WithLabelValues(engine).Observe(dur.Seconds())
}

func ObserveTransition(from, to string) { ScreenTransitions.WithLabelValues(from, to).Inc() }

func ObservePayment(method, outcome string) { Payments.WithLabelValues(method, outcome).Inc() }

func SetCameraActive(on bool) {
	if on {
		CameraActive.Set(1)
		return
	}
	CameraActive.Set(0)
}
