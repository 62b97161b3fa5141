package ports

import "time"

// FileSystem abstracts the file operations performed by targets and the engine.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// EnsureDir creates dir and its parents if they do not exist.
	EnsureDir(dir string) error
	// Copy copies the regular file src to dst, preserving its mode.
	Copy(src, dst string) error
	// Move renames src to dst, falling back to copy and remove across devices.
	Move(src, dst string) error
	// ModTime returns the modification time of path.
	ModTime(path string) (time.Time, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// IsFile reports whether path is an existing regular file.
	IsFile(path string) bool
	// IsDir reports whether path is an existing directory.
	IsDir(path string) bool
	// Touch creates path and its parent directories, or updates its modification time.
	Touch(path string) error
	// Remove deletes a single file.
	Remove(path string) error
	// RemoveAll deletes path and everything below it.
	RemoveAll(path string) error
	// ListFiles returns every regular file below root in lexical order.
	// Entries whose base name matches one of ignores are skipped, directories included.
	ListFiles(root string, ignores []string) ([]string, error)
}
