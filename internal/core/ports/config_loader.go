package ports

import "go.trai.ch/maestro/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the buildfile by walking up from cwd and decodes its rules.
	Load(cwd string) (*domain.Buildfile, error)

	// LoadFile decodes the buildfile at path.
	LoadFile(path string) (*domain.Buildfile, error)

	// DiscoverRoot walks up from cwd to the directory holding the buildfile.
	DiscoverRoot(cwd string) (string, error)
}
