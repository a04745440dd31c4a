// Package devserver runs the in-memory clinic API as a standalone HTTP
// server for local development.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/MonikaTammineni/fsadproject/internal/fakeapi"
	"github.com/MonikaTammineni/fsadproject/internal/logger"
)

// Run starts the development API server and blocks until shutdown or error.
func Run() error {
	cfg, err := LoadConfig()
	if err != nil {
		zlog.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log := logger.New("devapi", logger.Options{Console: cfg.ConsoleLog, Debug: cfg.Debug})
	zlog.Logger = log

	api, err := newAPI(cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to build API")
		return err
	}
	log.Info().Int("http_port", cfg.HTTPPort).Bool("seed", cfg.Seed).Msg("Dev API starting")
	if cfg.Seed {
		log.Info().
			Str("admin", fakeapi.DemoAdminEmail).
			Str("doctor", fakeapi.DemoDoctorEmail).
			Str("patient", fakeapi.DemoPatientEmail).
			Str("password", fakeapi.DemoPassword).
			Msg("Demo accounts loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := newHTTPServer(ctx, cfg, buildRouter(api))
	errCh := serveHTTP(server, log)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func newAPI(cfg *Config) (*fakeapi.Server, error) {
	var opts []fakeapi.Option
	if cfg.Secret != "" {
		opts = append(opts, fakeapi.WithSecret([]byte(cfg.Secret)))
	}
	if cfg.Seed {
		opts = append(opts, fakeapi.WithDemoData())
	}
	return fakeapi.New(opts...)
}

// buildRouter mounts the metrics endpoint next to the API.
func buildRouter(api http.Handler) *mux.Router {
	root := mux.NewRouter()
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	root.PathPrefix("/").Handler(api)
	return root
}

func newHTTPServer(ctx context.Context, cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
