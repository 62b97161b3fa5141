package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/maestro/internal/core/ports"
)

// NodeID is the unique identifier for the rule store Graft node.
const NodeID graft.ID = "adapter.rule_store"

func init() {
	graft.Register(graft.Node[ports.RuleStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RuleStore, error) {
			return NewStore(), nil
		},
	})
}
