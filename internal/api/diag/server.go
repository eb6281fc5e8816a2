package diag

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gvarobotics/estop-controller/internal/logger"
)

// shutdownTimeout bounds graceful shutdown of the diagnostics server.
const shutdownTimeout = 5 * time.Second

// Server serves health probes and metrics for the agent.
type Server struct {
	srv *http.Server
}

// NewServer builds the diagnostics server. Readiness follows the broker
// connection: an agent that cannot receive commands is not ready.
func NewServer(addr string, registry *prometheus.Registry, conn *nats.Conn) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if conn == nil || conn.Status() != nats.CONNECTED {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("broker disconnected"))

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Serve blocks until the context is canceled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Diagnostics server shutdown failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Diagnostics server listening", "address", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
