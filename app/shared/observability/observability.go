// Package observability builds the logger, tracer and metrics registry that
// every module receives at construction time.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls logger and tracer construction.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	Output      io.Writer
}

// Provider owns the process-level logger and tracer provider.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// Registry exposes the handles modules record into.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
}

type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds an Observability from cfg. Tracing goes through the global otel
// tracer provider so an exporter installed by the host process is picked up.
func Init(cfg Config) Observability {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "last-man-standing"
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)})
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tp := otel.GetTracerProvider()
	return Observability{
		Provider: &Provider{Logger: logger, TracerProvider: tp},
		Registry: &Registry{Tracer: tp.Tracer(cfg.ServiceName), Prometheus: reg},
	}
}

// NewNoop returns an Observability that discards logs and spans.
func NewNoop() Observability {
	tp := noop.NewTracerProvider()
	return Observability{
		Provider: &Provider{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			TracerProvider: tp,
		},
		Registry: &Registry{Tracer: tp.Tracer("noop"), Prometheus: prometheus.NewRegistry()},
	}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
