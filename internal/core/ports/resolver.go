package ports

// InputResolver expands file patterns into concrete paths.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs expands glob patterns relative to root, keeping declaration order.
	// A pattern without matches is kept as a literal path.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
