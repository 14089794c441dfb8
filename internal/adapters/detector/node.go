package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/rules"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the signal detector Graft node.
const NodeID graft.ID = "adapter.detector"

func init() {
	graft.Register(graft.Node[ports.SignalDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{rules.NodeID},
		Run: func(ctx context.Context) (ports.SignalDetector, error) {
			table, err := graft.Dep[*domain.RuleTable](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(table), nil
		},
	})
}
