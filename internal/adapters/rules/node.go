package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/config"
	"go.trai.ch/sprout/internal/core/domain"
)

// NodeID is the unique identifier for the rule table Graft node.
const NodeID graft.ID = "adapter.rules"

func init() {
	graft.Register(graft.Node[*domain.RuleTable]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*domain.RuleTable, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return Load(settings.RulesFile)
		},
	})
}
