package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/maestro/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the configuration hash store Graft node.
	NodeID graft.ID = "adapter.config_hash_store"
	// OutputStoreNodeID is the unique identifier for the output list store Graft node.
	OutputStoreNodeID graft.ID = "adapter.output_store"
)

func init() {
	graft.Register(graft.Node[ports.ConfigHashStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigHashStore, error) {
			return NewStore(), nil
		},
	})

	graft.Register(graft.Node[ports.OutputStore]{
		ID:        OutputStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.OutputStore, error) {
			return NewOutputStore(), nil
		},
	})
}
