package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan announces the targets registered for a run.
	EmitPlan(ctx context.Context, targetNames []string, deps map[string][]string)
}

// Span represents the build of one target.
// Output written to the span is forwarded to the renderer.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Kind     string
	Provides []string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithKind records the target kind on the span.
func WithKind(kind string) SpanOption {
	return func(c *SpanConfig) { c.Kind = kind }
}

// WithProvides records the identifiers a span produces.
func WithProvides(ids []string) SpanOption {
	return func(c *SpanConfig) { c.Provides = ids }
}
