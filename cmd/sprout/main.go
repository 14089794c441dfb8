// Package main is the entry point for sprout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/cmd/sprout/commands"
	"go.trai.ch/sprout/internal/app"
	"go.trai.ch/sprout/internal/core/domain"
	_ "go.trai.ch/sprout/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// raise re-delivers the signal that killed the hosted process to sprout itself.
var raise = reraise

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return domain.ExitFailure
	}
	defer cleanup()

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	err = cli.Execute(ctx)

	closeCtx, closeCancel := context.WithTimeout(context.WithoutCancel(ctx), app.CloseTimeout)
	components.App.Close(closeCtx)
	closeCancel()

	if err == nil {
		return domain.ExitOK
	}

	var hosted *domain.HostedExit
	if errors.As(err, &hosted) {
		if hosted.Status.Signaled {
			cancel()
			raise(hosted.Status.Signal)
		}
		return hosted.Status.Code
	}

	components.Logger.Error(err)
	return domain.ExitCode(err)
}
