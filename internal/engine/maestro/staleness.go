package maestro

import (
	"fmt"
	"time"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
)

var _ domain.MTimeChecker = (*Staleness)(nil)

// Staleness implements the standard modification-time and configuration-hash check.
type Staleness struct {
	stateDir string
	fs       ports.FileSystem
	hasher   ports.Hasher
	hashes   ports.ConfigHashStore
	logger   ports.Logger
}

// NewStaleness creates a Staleness checker keeping its hash cache in stateDir.
func NewStaleness(
	stateDir string,
	fs ports.FileSystem,
	hasher ports.Hasher,
	hashes ports.ConfigHashStore,
	logger ports.Logger,
) *Staleness {
	return &Staleness{
		stateDir: stateDir,
		fs:       fs,
		hasher:   hasher,
		hashes:   hashes,
		logger:   logger,
	}
}

// CheckMTimes reports whether outputs must be rebuilt.
//
// Outputs are stale when one of them is not a regular file, when config differs from the
// digest recorded for the outputs, when no input exists, or when the newest output is not
// strictly newer than the newest input. A nil config skips the digest comparison.
func (s *Staleness) CheckMTimes(name string, inputs, outputs []string, config any) bool {
	for _, out := range outputs {
		if !s.fs.IsFile(out) {
			s.logger.Debug(fmt.Sprintf("%s: %s does not exist", name, out))
			return true
		}
	}

	if config != nil && s.configChanged(name, outputs, config) {
		return true
	}

	newestOut, outPath := s.newest(outputs)
	newestIn, inPath := s.newest(inputs)
	if inPath == "" {
		s.logger.Debug(fmt.Sprintf("%s: no existing inputs", name))
		return true
	}
	if !newestOut.After(newestIn) {
		s.logger.Debug(fmt.Sprintf("%s: %s is newer than %s by %v", name, inPath, outPath, newestIn.Sub(newestOut)))
		return true
	}
	return false
}

// Record stores the digest of config for outputs so the next check compares against it.
func (s *Staleness) Record(outputs []string, config any) {
	if config == nil {
		return
	}
	digest, err := s.hasher.ConfigDigest(config)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cannot hash configuration: %v", err))
		return
	}
	s.put(s.hasher.OutputsKey(outputs), digest)
}

func (s *Staleness) configChanged(name string, outputs []string, config any) bool {
	digest, err := s.hasher.ConfigDigest(config)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("%s: cannot hash configuration: %v", name, err))
		return true
	}
	key := s.hasher.OutputsKey(outputs)

	stored, err := s.hashes.Get(s.stateDir, key)
	if err != nil {
		s.logger.Debug(fmt.Sprintf("%s: unreadable configuration cache: %v", name, err))
		stored = ""
	}
	switch {
	case stored == "":
		s.logger.Debug(fmt.Sprintf("%s: configuration cache does not exist", name))
	case stored != digest:
		s.logger.Debug(fmt.Sprintf("%s: configuration changed", name))
	default:
		return false
	}
	s.put(key, digest)
	return true
}

func (s *Staleness) put(key, digest string) {
	if err := s.hashes.Put(s.stateDir, key, digest); err != nil {
		s.logger.Warn(fmt.Sprintf("cannot write configuration cache: %v", err))
	}
}

// newest returns the latest modification time among paths that are regular files.
func (s *Staleness) newest(paths []string) (time.Time, string) {
	var (
		latest time.Time
		which  string
	)
	for _, p := range paths {
		if !s.fs.IsFile(p) {
			continue
		}
		mt, err := s.fs.ModTime(p)
		if err != nil {
			continue
		}
		if which == "" || mt.After(latest) {
			latest, which = mt, p
		}
	}
	return latest, which
}
