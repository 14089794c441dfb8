package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/adapters/nix"      //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/adapters/signals"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/adapters/usage"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/engine/orchestrator"
	"go.trai.ch/sprout/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			detector.NodeID,
			resolver.NodeID,
			nix.SynthesizerNodeID,
			nix.CacheNodeID,
			orchestrator.NodeID,
			signals.NodeID,
			usage.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	det, err := graft.Dep[ports.SignalDetector](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	synth, err := graft.Dep[ports.Synthesizer](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.EnvironmentCache](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.SignalSource](ctx)
	if err != nil {
		return nil, err
	}

	reporter, err := graft.Dep[ports.UsageReporter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return New(det, res, synth, orch, cache, source, reporter, log, settings), nil
}
