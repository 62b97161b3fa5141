package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the registered targets are known.
	// targets: target names in registration order
	// deps: dependency map (target -> dependency identifiers)
	OnPlanEmit(targets []string, deps map[string][]string)

	// OnTaskStart is called when a target begins building.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a target's build emits output.
	// data may contain partial lines.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a target's build finishes.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
