package config

import "go.trai.ch/maestro/internal/core/domain"

// Buildfile represents the structure of the maestro.yaml configuration file.
type Buildfile struct {
	// StateDir overrides the build-state directory, relative to the buildfile.
	StateDir string `yaml:"stateDir"`
	// Targets are the declared targets in build order.
	Targets []domain.Rule `yaml:"targets"`
}
