// Package http serves the webhook endpoint, health checks and Prometheus
// metrics on a single listener.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tunebridge/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

// Metrics collects the service counters. Registered on a private registry so
// constructing a second Server never panics on duplicate registration.
type Metrics struct {
	UpdatesTotal     *prometheus.CounterVec
	ResolutionsTotal *prometheus.CounterVec
	ResolveDuration  *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates the metric collectors on a fresh registry.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		UpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunebridge_updates_total",
				Help: "Total number of chat updates processed",
			},
			[]string{"kind", "status"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunebridge_resolutions_total",
				Help: "Total number of link resolutions by outcome",
			},
			[]string{"kind", "outcome"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tunebridge_resolve_duration_seconds",
				Help:    "Time spent resolving links and searches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		registry: prometheus.NewRegistry(),
	}

	metrics.registry.MustRegister(
		metrics.UpdatesTotal,
		metrics.ResolutionsTotal,
		metrics.ResolveDuration,
	)

	return metrics
}

// NewServer builds the HTTP server. The webhook handler is mounted on the
// configured webhook path; pass nil to run without one. A nil metrics gets
// a fresh collector set.
func NewServer(config *core.ServerConfig, webhook http.Handler, metrics *Metrics, logger *zap.Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	mux := setupRoutes(metrics)

	if webhook != nil {
		mux.Handle(config.WebhookPath, webhook)
	}

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, mux),
		metrics: metrics,
	}
}

func setupRoutes(metrics *Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tunebridge"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"tunebridge"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.String("webhook_path", s.config.WebhookPath))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// RecordUpdate counts one processed chat update.
func (m *Metrics) RecordUpdate(kind, status string) {
	m.UpdatesTotal.WithLabelValues(kind, status).Inc()
}

// RecordResolution counts one resolution outcome per resolution kind.
func (m *Metrics) RecordResolution(service, outcome string) {
	m.ResolutionsTotal.WithLabelValues(service, outcome).Inc()
}

// RecordResolveTime observes how long one resolve or search took.
func (m *Metrics) RecordResolveTime(kind string, duration time.Duration) {
	m.ResolveDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
