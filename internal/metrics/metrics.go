// Package metrics exposes Prometheus instrumentation for Alexander IAM.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/config"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alexander_iam",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alexander_iam",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LoginAttemptsTotal counts login attempts by outcome
	// (success, invalid_credentials, inactive, rate_limited, error).
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alexander_iam",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// SignupsTotal counts successfully created accounts.
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alexander_iam",
			Name:      "signups_total",
			Help:      "Total number of accounts created.",
		},
	)

	// TokensIssuedTotal counts issued access tokens.
	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alexander_iam",
			Name:      "tokens_issued_total",
			Help:      "Total number of access tokens issued.",
		},
	)

	// AdminMutationsTotal counts admin mutations by operation
	// (change_role, set_active, delete).
	AdminMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alexander_iam",
			Name:      "admin_mutations_total",
			Help:      "Total number of admin mutations applied.",
		},
		[]string{"operation"},
	)
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Server serves the /metrics scrape endpoint on its own listener so the
// exporter is never exposed on the API port.
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics server from config.
func NewServer(cfg config.MetricsConfig, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// Shutdown stops the metrics server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
