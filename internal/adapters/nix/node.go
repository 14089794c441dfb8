package nix

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/config"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
)

const (
	// SynthesizerNodeID is the unique identifier for the synthesizer Graft node.
	SynthesizerNodeID graft.ID = "adapter.synthesizer"
	// BuilderNodeID is the unique identifier for the environment builder Graft node.
	BuilderNodeID graft.ID = "adapter.env_builder"
	// CacheNodeID is the unique identifier for the environment cache Graft node.
	CacheNodeID graft.ID = "adapter.env_cache"
)

func init() {
	graft.Register(graft.Node[ports.Synthesizer]{
		ID:        SynthesizerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Synthesizer, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewSynthesizer(settings.Nixpkgs), nil
		},
	})

	graft.Register(graft.Node[ports.EnvironmentBuilder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentBuilder, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(settings.BuildTool), nil
		},
	})

	graft.Register(graft.Node[ports.EnvironmentCache]{
		ID:        CacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentCache, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnvCache(settings.CacheDir), nil
		},
	})
}
