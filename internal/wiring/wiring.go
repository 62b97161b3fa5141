// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/maestro/internal/adapters/cas"
	_ "go.trai.ch/maestro/internal/adapters/config"
	_ "go.trai.ch/maestro/internal/adapters/fs"
	_ "go.trai.ch/maestro/internal/adapters/logger"
	_ "go.trai.ch/maestro/internal/adapters/rules"
	_ "go.trai.ch/maestro/internal/adapters/shell"
	_ "go.trai.ch/maestro/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/maestro/internal/app"
)
