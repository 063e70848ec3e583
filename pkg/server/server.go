package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/kbroman/errorgrams/pkg/api"
	"github.com/kbroman/errorgrams/pkg/observability"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server runs the API together with the metrics, pprof and health endpoints
type Server struct {
	log    logrus.FieldLogger
	config *Config
	api    api.Service

	pprofServer  *http.Server
	healthServer *http.Server
}

// NewServer creates a new server instance
func NewServer(log logrus.FieldLogger, config *Config, apiService api.Service) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		log:    log.WithField("component", "server"),
		api:    apiService,
	}, nil
}

// Start starts the server and blocks until ctx is done or the process is signalled
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if err := s.api.Start(ctx); err != nil {
		return err
	}

	g.Go(func() error {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log.WithField("panic", recovered).Error("Panic in metrics server goroutine")
			}
		}()
		observability.StartMetricsServer(ctx, s.config.MetricsAddr)
		<-ctx.Done()

		return nil
	})

	if s.config.PProfAddr != nil {
		s.pprofServer = &http.Server{
			Addr:              *s.config.PProfAddr,
			ReadHeaderTimeout: 120 * time.Second,
		}

		g.Go(func() error {
			s.log.WithField("addr", *s.config.PProfAddr).Info("Starting pprof server")

			if err := s.pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	if s.config.HealthCheckAddr != nil {
		s.healthServer = &http.Server{
			Addr:              *s.config.HealthCheckAddr,
			ReadHeaderTimeout: 120 * time.Second,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		}

		g.Go(func() error {
			s.log.WithField("addr", *s.config.HealthCheckAddr).Info("Starting healthcheck server")

			if err := s.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		// Use a fresh context for cleanup since the current one is canceled
		return s.stop(context.Background())
	})

	return g.Wait()
}

func (s *Server) stop(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	if err := s.api.Stop(); err != nil {
		s.log.WithError(err).Error("failed to stop API server")
	}

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}
