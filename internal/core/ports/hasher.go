package ports

// Hasher computes the digests used by the configuration-hash staleness check.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// ConfigDigest returns a content hash of a target configuration.
	// Equal configurations produce equal digests regardless of map ordering.
	ConfigDigest(config any) (string, error)

	// OutputsKey returns the cache key identifying a set of outputs.
	OutputsKey(outputs []string) string
}
