// Package shell hosts the user's command inside a realized environment.
package shell

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultShell is started when neither a command nor $SHELL is given.
const DefaultShell = "/bin/sh"

// Host implements ports.ProcessHost with inherited standard streams.
type Host struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	environ func() []string
}

var _ ports.ProcessHost = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithStdio replaces the inherited standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(h *Host) {
		h.stdin, h.stdout, h.stderr = stdin, stdout, stderr
	}
}

// WithEnviron replaces os.Environ as the source of the host environment.
func WithEnviron(environ func() []string) Option {
	return func(h *Host) { h.environ = environ }
}

// NewHost creates a Host wired to the process's own stdin, stdout and stderr.
func NewHost(opts ...Option) *Host {
	h := &Host{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Spawn starts cmd, or the user's shell when cmd has no arguments. The
// process is not tied to ctx: it only ends on its own or by a forwarded signal.
func (h *Host) Spawn(ctx context.Context, cmd domain.Command, env *domain.RealizedEnvironment) (ports.HostedProcess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hostEnv := h.environ()
	merged := resolveEnvironment(hostEnv, env, cmd.Dir)

	args := cmd.Args
	if cmd.Interactive() {
		args = []string{userShell(hostEnv)}
	}

	executable, err := lookPath(args[0], merged, cmd.Dir)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // running the user's command is the purpose of this package
	c := exec.Command(executable, args[1:]...)
	c.Args[0] = args[0]
	c.Dir = cmd.Dir
	c.Env = merged
	c.Stdin = h.stdin
	c.Stdout = h.stdout
	c.Stderr = h.stderr

	if err := c.Start(); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, zerr.With(zerr.Wrap(domain.ErrCommandNotExecutable, err.Error()), "command", args[0])
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrSpawnFailed, err.Error()), "command", args[0])
	}

	return &hostedProcess{cmd: c}, nil
}

type hostedProcess struct {
	cmd *exec.Cmd
}

func (p *hostedProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *hostedProcess) Signal(sig os.Signal) error {
	if err := p.cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return zerr.With(zerr.Wrap(err, "failed to forward signal"), "signal", sig.String())
	}
	return nil
}

func (p *hostedProcess) Wait() (domain.ExitStatus, error) {
	err := p.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return domain.ExitStatus{}, zerr.Wrap(err, "failed to wait for command")
		}
	}
	return exitStatus(p.cmd.ProcessState), nil
}

func userShell(env []string) string {
	if sh, ok := lookupEnv(env, "SHELL"); ok && sh != "" {
		return sh
	}
	return DefaultShell
}

func lookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(env[i], "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

// resolveEnvironment overlays the realized variables on the host environment.
// PATH is prepended rather than replaced so host tools stay reachable.
func resolveEnvironment(sysEnv []string, env *domain.RealizedEnvironment, root string) []string {
	envMap := make(map[string]string, len(sysEnv))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	specID := ""
	if env != nil {
		applyNixEnv(envMap, env.Variables)
		specID = env.SpecID
	}

	envMap[domain.ActiveEnvVar] = root
	envMap[domain.EnvIDEnvVar] = specID

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

func applyNixEnv(envMap map[string]string, nixEnv []string) {
	for _, entry := range nixEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}
}

// lookPath resolves file against the PATH in env. Names containing a path
// separator are resolved relative to dir instead.
func lookPath(file string, env []string, dir string) (string, error) {
	if strings.ContainsRune(file, filepath.Separator) {
		path := file
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		if err := findExecutable(path); err != nil {
			return "", classify(err, file)
		}
		return path, nil
	}

	pathVar, _ := lookupEnv(env, "PATH")
	var firstErr error
	for _, d := range filepath.SplitList(pathVar) {
		if d == "" {
			// Unix shell semantics: path element "" means "."
			d = "."
		}
		path := filepath.Join(d, file)
		err := findExecutable(path)
		if err == nil {
			return path, nil
		}
		if firstErr == nil && errors.Is(err, fs.ErrPermission) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", classify(firstErr, file)
	}
	return "", classify(fs.ErrNotExist, file)
}

func classify(err error, file string) error {
	if errors.Is(err, fs.ErrPermission) {
		return zerr.With(zerr.Wrap(domain.ErrCommandNotExecutable, "permission denied"), "command", file)
	}
	return zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "no such file in the environment"), "command", file)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return fs.ErrPermission
}
