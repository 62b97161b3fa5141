package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct {
	walker *Walker
}

// NewFileSystem creates a new FileSystem.
func NewFileSystem(walker *Walker) *FileSystem {
	return &FileSystem{walker: walker}
}

// EnsureDir creates dir and its parents.
func (f *FileSystem) EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDirCreateFailed.Error()), "path", dir)
	}
	return nil
}

// Copy copies the regular file src to dst, preserving the permission bits.
func (f *FileSystem) Copy(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path comes from the target graph
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Path comes from the target graph
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "src", src), "dst", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "dst", dst)
	}
	return nil
}

// Move renames src to dst. When a rename is impossible the file is copied and the
// source removed.
func (f *FileSystem) Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := f.Copy(src, dst); err != nil {
		return zerr.Wrap(err, domain.ErrFileMoveFailed.Error())
	}
	if err := os.Remove(src); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileMoveFailed.Error()), "path", src)
	}
	return nil
}

// ModTime returns the modification time of path.
func (f *FileSystem) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return info.ModTime(), nil
}

// Exists reports whether path exists.
func (f *FileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path is a regular file.
func (f *FileSystem) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path is a directory.
func (f *FileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Touch creates path and its parent directories, or sets its modification time to now.
func (f *FileSystem) Touch(path string) error {
	if err := f.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, domain.FilePerm) //nolint:gosec // Path comes from the target graph
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	_ = file.Close()

	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return nil
}

// Remove deletes a single file. A missing file is not an error.
func (f *FileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", path)
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (f *FileSystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", path)
	}
	return nil
}

// ListFiles returns the regular files below root. A missing root yields no files.
func (f *FileSystem) ListFiles(root string, ignores []string) ([]string, error) {
	if !f.IsDir(root) {
		return nil, nil
	}
	var files []string
	for path := range f.walker.WalkFiles(root, ignores) {
		files = append(files, path)
	}
	return files, nil
}
