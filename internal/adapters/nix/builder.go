// Package nix realizes development environments with the Nix build tool.
package nix

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultGracePeriod is how long a terminated build may take to exit before it is killed.
	DefaultGracePeriod = 5 * time.Second

	maxLineSize = 1024 * 1024
)

// Builder implements ports.EnvironmentBuilder by running `nix print-dev-env`.
type Builder struct {
	tool        string
	tempDir     string
	gracePeriod time.Duration
}

var _ ports.EnvironmentBuilder = (*Builder)(nil)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTempDir sets the directory for staged expressions. Empty means os.TempDir.
func WithTempDir(dir string) BuilderOption {
	return func(b *Builder) { b.tempDir = dir }
}

// WithGracePeriod sets the delay between SIGTERM and SIGKILL on termination.
func WithGracePeriod(d time.Duration) BuilderOption {
	return func(b *Builder) { b.gracePeriod = d }
}

// NewBuilder creates a Builder that runs tool.
func NewBuilder(tool string, opts ...BuilderOption) *Builder {
	b := &Builder{tool: tool, gracePeriod: DefaultGracePeriod}
	if b.tool == "" {
		b.tool = domain.DefaultBuildTool
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Args returns the build tool arguments for a staged expression.
func (b *Builder) Args(path string, opts ports.BuildOptions) []string {
	args := []string{
		"--extra-experimental-features", "nix-command flakes",
		"print-dev-env", "--json", "--file", path,
	}
	if opts.Offline {
		args = append(args, "--offline")
	}
	return args
}

// Stage writes spec to a new temporary file.
func (b *Builder) Stage(spec domain.EnvironmentSpec) (ports.StagedSpec, error) {
	tmpFile, err := os.CreateTemp(b.tempDir, domain.SpecFilePattern)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create temp nix file")
	}

	staged := &stagedFile{path: tmpFile.Name(), specID: spec.ID()}

	if _, writeErr := tmpFile.WriteString(spec.Text); writeErr != nil {
		_ = tmpFile.Close()
		_ = staged.Release()
		return nil, zerr.Wrap(writeErr, "failed to write nix expression")
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		_ = staged.Release()
		return nil, zerr.Wrap(closeErr, "failed to close temp nix file")
	}

	return staged, nil
}

// Start launches the build tool. Its stderr is streamed line by line; its
// stdout is parsed as the realized environment once it exits.
func (b *Builder) Start(ctx context.Context, staged ports.StagedSpec, opts ports.BuildOptions) (ports.BuildProcess, error) {
	specID := ""
	if s, ok := staged.(*stagedFile); ok {
		specID = s.specID
	}

	//nolint:gosec // the tool is configured by the user and the path is our own temp file
	cmd := exec.CommandContext(ctx, b.tool, b.Args(staged.Path(), opts)...)
	setProcessGroup(cmd)
	cmd.WaitDelay = b.gracePeriod

	p := &buildProcess{
		tool:   b.tool,
		specID: specID,
		cmd:    cmd,
		grace:  b.gracePeriod,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	cmd.Cancel = p.Terminate
	cmd.Stdout = &p.stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open build output")
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrBuildToolNotFound, err.Error()), "tool", b.tool)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to start build tool"), "tool", b.tool)
	}

	go p.scan(stderr)

	return p, nil
}

type stagedFile struct {
	path   string
	specID string

	once sync.Once
	err  error
}

func (s *stagedFile) Path() string {
	return s.path
}

func (s *stagedFile) Release() error {
	s.once.Do(func() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.err = zerr.With(zerr.Wrap(err, "failed to remove temp nix file"), "path", s.path)
		}
	})
	return s.err
}

type buildProcess struct {
	tool   string
	specID string
	cmd    *exec.Cmd
	grace  time.Duration

	stdout bytes.Buffer
	output []string
	lines  chan string
	done   chan struct{}

	mu         sync.Mutex
	terminated bool
	killTimer  *time.Timer
}

func (p *buildProcess) scan(r io.Reader) {
	defer close(p.done)
	defer close(p.lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		p.output = append(p.output, line)
		p.lines <- line
	}
	// Keep reading so the tool never blocks on a full pipe after an oversized line.
	_, _ = io.Copy(io.Discard, r)
}

func (p *buildProcess) Lines() <-chan string {
	return p.lines
}

func (p *buildProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Terminate sends SIGTERM to the build's process group and SIGKILL after the grace period.
func (p *buildProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.terminated {
		return nil
	}
	p.terminated = true

	proc := p.cmd.Process
	p.killTimer = time.AfterFunc(p.grace, func() {
		_ = killGroup(proc)
	})
	return terminateGroup(proc)
}

func (p *buildProcess) wasTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

func (p *buildProcess) Wait() (*domain.RealizedEnvironment, error) {
	<-p.done
	waitErr := p.cmd.Wait()

	p.mu.Lock()
	if p.killTimer != nil {
		// Stragglers in the group still get the SIGKILL.
		if p.killTimer.Stop() {
			_ = killGroup(p.cmd.Process)
		}
	}
	p.mu.Unlock()

	if p.wasTerminated() {
		return nil, domain.ErrBuildInterrupted
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = domain.ExitFailure
			}
			return nil, &domain.BuildFailure{Tool: p.tool, ExitCode: code, Output: p.output}
		}
		return nil, zerr.With(zerr.Wrap(waitErr, "build tool failed"), "tool", p.tool)
	}

	vars, err := ParseDevEnv(p.stdout.Bytes())
	if err != nil {
		return nil, err
	}

	return &domain.RealizedEnvironment{SpecID: p.specID, Variables: vars}, nil
}
