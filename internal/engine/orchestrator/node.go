package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sprout/internal/adapters/nix"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sprout/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sprout/internal/adapters/signals" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			nix.BuilderNodeID,
			nix.CacheNodeID,
			shell.NodeID,
			signals.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			builder, err := graft.Dep[ports.EnvironmentBuilder](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.EnvironmentCache](ctx)
			if err != nil {
				return nil, err
			}

			host, err := graft.Dep[ports.ProcessHost](ctx)
			if err != nil {
				return nil, err
			}

			source, err := graft.Dep[ports.SignalSource](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(builder, cache, host, source, log), nil
		},
	})
}
