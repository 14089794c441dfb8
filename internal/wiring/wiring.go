// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sprout/internal/adapters/config"
	_ "go.trai.ch/sprout/internal/adapters/detector"
	_ "go.trai.ch/sprout/internal/adapters/logger"
	_ "go.trai.ch/sprout/internal/adapters/nix"
	_ "go.trai.ch/sprout/internal/adapters/rules"
	_ "go.trai.ch/sprout/internal/adapters/shell"
	_ "go.trai.ch/sprout/internal/adapters/signals"
	_ "go.trai.ch/sprout/internal/adapters/usage"
	// Register app and engine nodes.
	_ "go.trai.ch/sprout/internal/app"
	_ "go.trai.ch/sprout/internal/engine/orchestrator"
	_ "go.trai.ch/sprout/internal/engine/resolver"
)
