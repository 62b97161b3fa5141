package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change a WatchEvent reports.
type WatchOp uint8

// Change kinds. Chmod-only changes are never reported.
const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op WatchOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// WatchEvent is one change below the watched root.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher reports changes below a project root so that watch mode can rebuild.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root and every directory below it, including ones created later.
	Start(ctx context.Context, root string) error
	// Stop releases the watcher and ends the Events sequence.
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
