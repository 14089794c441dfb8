package usage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/config"
	"go.trai.ch/sprout/internal/adapters/logger"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the usage reporter Graft node.
const NodeID graft.ID = "adapter.usage"

func init() {
	graft.Register(graft.Node[ports.UsageReporter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.UsageReporter, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			if !settings.Telemetry.Enabled {
				return NoopReporter{}, nil
			}
			return NewReporter(settings.Telemetry,
				WithProbe(DefaultProbe(settings.BuildTool)),
				WithLogger(log),
			), nil
		},
	})
}
