package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/calendar-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "calendar"

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Auth metrics

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Sign-in attempts, by method and outcome.",
	}, []string{"method", "outcome"})

	AuthGateRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_rejections_total",
		Help:      "Requests to protected routes rejected by the auth gate.",
	}, []string{"reason"})

	// Janitor metrics

	JanitorPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "janitor_oauth_states_purged_total",
		Help:      "Expired OAuth states deleted by the janitor.",
	})

	JanitorRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "janitor_run_duration_seconds",
		Help:      "Time taken for one janitor run.",
		Buckets:   prometheus.DefBuckets,
	})

	JanitorRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "janitor_runs_total",
		Help:      "Janitor runs, by outcome.",
	}, []string{"outcome"})
)

// Auth attempt labels.
const (
	MethodPassword       = "password"
	MethodGoogleToken    = "google_id_token"
	MethodGoogleRedirect = "google_redirect"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		AuthAttemptsTotal,
		AuthGateRejectionsTotal,
		JanitorPurgedTotal,
		JanitorRunDuration,
		JanitorRunsTotal,
	)
}

// NewServer exposes /metrics plus the health probes on a listener separate
// from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
