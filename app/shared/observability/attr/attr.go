// Package attr holds the slog attribute helpers shared by every module so log
// keys stay consistent across services, handlers and workers.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// WithCorrelationID returns a context carrying id for log correlation.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation id stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ExtractCorrelationID returns the correlation id attribute for ctx.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }
func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func LeagueID(id int64) slog.Attr { return slog.Int64("league_id", id) }
func UserID(id string) slog.Attr { return slog.String("user_id", id) }
func FixtureKey(key string) slog.Attr { return slog.String("fixture_key", key) }

// Error returns the error attribute, or an empty value for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
