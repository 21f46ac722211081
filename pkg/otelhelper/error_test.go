package otelhelper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetRunError(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "workflow.execute",
		RunAttributes("wf-1", "run-1234abcd")...)

	SetRunError(span, errors.New("provider unavailable"), "wf-1", "run-1234abcd")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	recorded := spans[0]
	assert.Equal(t, codes.Error, recorded.Status().Code)
	assert.Equal(t, "provider unavailable", recorded.Status().Description)
	assert.Contains(t, recorded.Attributes(), attribute.String(WorkflowIDKey, "wf-1"))
	assert.Contains(t, recorded.Attributes(), attribute.String(RunIDKey, "run-1234abcd"))

	names := make([]string, 0, len(recorded.Events()))
	for _, event := range recorded.Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, "exception")
	assert.Contains(t, names, "error_occurred")
}

func TestRunAttributes(t *testing.T) {
	t.Parallel()

	attrs := RunAttributes("wf-2", "run-9")

	assert.Equal(t, []attribute.KeyValue{
		attribute.String(WorkflowIDKey, "wf-2"),
		attribute.String(RunIDKey, "run-9"),
	}, attrs)
}
