package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/config"
)

type httpServer struct {
	server *http.Server
	logger *slog.Logger
}

func newHTTPServer(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an
// error.
func (s *httpServer) ListenAndServe() error {
	s.logger.Info("HTTP server listening", attr.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		s.logger.Error("HTTP server failed", attr.Error(err))
	}
	return err
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler the server runs.
func (app *App) Handler() http.Handler {
	return app.server.server.Handler
}
