package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunAttributes identifies one workflow run on a span.
func RunAttributes(workflowID, runID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(WorkflowIDKey, workflowID),
		attribute.String(RunIDKey, runID),
	}
}

// SetError records err on the span and marks its status failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(attrs...))
}

// SetRunError is SetError with the run's identifying attributes attached.
func SetRunError(span trace.Span, err error, workflowID, runID string) {
	SetError(span, err, RunAttributes(workflowID, runID)...)
}
