package operation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type countingMetrics struct {
	attempts, successes, failures, durations int
}

func (m *countingMetrics) RecordOperationAttempt(context.Context, string, string) { m.attempts++ }
func (m *countingMetrics) RecordOperationSuccess(context.Context, string, string) { m.successes++ }
func (m *countingMetrics) RecordOperationFailure(context.Context, string, string) { m.failures++ }
func (m *countingMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {
	m.durations++
}
func (m *countingMetrics) RecordBatchItem(context.Context, string, string) {}

func newTelemetry(m *countingMetrics) Telemetry {
	return Telemetry{Service: "TestService", Metrics: m, Tracer: noop.NewTracerProvider().Tracer("test")}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		m := &countingMetrics{}
		res, err := Run(newTelemetry(m), ctx, "Op", "id", func(context.Context) (results.OperationResult[int, error], error) {
			return results.SuccessResult[int, error](3), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, *res.Success)
		assert.Equal(t, &countingMetrics{attempts: 1, successes: 1, durations: 1}, m)
	})

	t.Run("business failure is still a successful operation", func(t *testing.T) {
		m := &countingMetrics{}
		res, err := Run(newTelemetry(m), ctx, "Op", "id", func(context.Context) (results.OperationResult[int, error], error) {
			return results.FailureResult[int, error](errors.New("already picked")), nil
		})
		require.NoError(t, err)
		assert.True(t, res.IsFailure())
		assert.Equal(t, 1, m.successes)
		assert.Equal(t, 0, m.failures)
	})

	t.Run("error is wrapped with the operation name", func(t *testing.T) {
		m := &countingMetrics{}
		cause := errors.New("db down")
		_, err := Run(newTelemetry(m), ctx, "Op", "id", func(context.Context) (results.OperationResult[int, error], error) {
			return results.OperationResult[int, error]{}, cause
		})
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "Op:")
		assert.Equal(t, 1, m.failures)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		m := &countingMetrics{}
		res, err := Run(newTelemetry(m), ctx, "Op", "id", func(context.Context) (results.OperationResult[int, error], error) {
			panic("boom")
		})
		assert.ErrorContains(t, err, "panic in Op")
		assert.False(t, res.IsSuccess())
		assert.Equal(t, 1, m.failures)
	})

	t.Run("nil metrics and tracer", func(t *testing.T) {
		_, err := Run(Telemetry{}, ctx, "Op", "id", func(context.Context) (results.OperationResult[int, error], error) {
			return results.SuccessResult[int, error](1), nil
		})
		assert.NoError(t, err)
	})
}

func TestInTx_NilDB(t *testing.T) {
	var got bun.IDB = &bun.DB{}
	res, err := InTx(context.Background(), nil, func(_ context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
		got = db
		return results.SuccessResult[string, error]("ok"), nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "ok", *res.Success)
}
