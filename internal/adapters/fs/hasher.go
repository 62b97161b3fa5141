package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes configuration digests and output keys.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ConfigDigest hashes the canonical YAML encoding of config with XXHash.
// yaml.v3 emits mapping keys in sorted order, so map iteration order does not matter.
func (h *Hasher) ConfigDigest(config any) (string, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigHashFailed.Error())
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// OutputsKey returns the SHA-256 hex digest of the sorted outputs joined by ";".
func (h *Hasher) OutputsKey(outputs []string) string {
	sorted := slices.Clone(outputs)
	slices.Sort(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, ";")))
	return hex.EncodeToString(sum[:])
}
