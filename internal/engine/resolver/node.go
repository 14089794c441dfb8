package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/rules" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the input resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[ports.InputResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{rules.NodeID},
		Run: func(ctx context.Context) (ports.InputResolver, error) {
			table, err := graft.Dep[*domain.RuleTable](ctx)
			if err != nil {
				return nil, err
			}
			return New(table), nil
		},
	})
}
