package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports target spans to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart announces the span to the renderer.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	parentID, _ := b.spanID(trace.SpanContextFromContext(parent))
	b.renderer.OnTaskStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd reports the outcome of the span. A span with an error status completes with
// an error carrying the status description, or ErrTargetBuildFailed when it has none.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}

	var err error
	if status := s.Status(); status.Code == codes.Error {
		err = domain.ErrTargetBuildFailed
		if status.Description != "" {
			err = errors.New(status.Description)
		}
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), err)
}

func (b *Bridge) spanID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

// ForceFlush does nothing; spans are reported synchronously.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
