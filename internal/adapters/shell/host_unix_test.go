//go:build unix

package shell_test

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/adapters/shell"
	"go.trai.ch/sprout/internal/core/domain"
)

// lockedBuffer is read by the test while the exec copy goroutine writes to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func hostEnv() []string {
	return []string{"PATH=/usr/bin:/bin", "HOME=" + os.TempDir()}
}

func TestSpawn_ExitCodePassthrough(t *testing.T) {
	var stdout bytes.Buffer
	host := shell.NewHost(shell.WithStdio(nil, &stdout, &stdout), shell.WithEnviron(hostEnv))

	proc, err := host.Spawn(context.Background(), domain.Command{
		Args: []string{"sh", "-c", "echo $SPROUT_ENV_ID $GREETING; exit 7"},
		Dir:  t.TempDir(),
	}, &domain.RealizedEnvironment{SpecID: "abc", Variables: []string{"GREETING=hello"}})
	require.NoError(t, err)

	status, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, domain.ExitStatus{Code: 7}, status)
	assert.Equal(t, "abc hello\n", stdout.String())
}

func TestSpawn_KilledBySignal(t *testing.T) {
	stdout := &lockedBuffer{}
	host := shell.NewHost(shell.WithStdio(nil, stdout, stdout), shell.WithEnviron(hostEnv))

	proc, err := host.Spawn(context.Background(), domain.Command{
		Args: []string{"sh", "-c", "echo ready; exec sleep 30"},
	}, &domain.RealizedEnvironment{})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return strings.Contains(stdout.String(), "ready") }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, proc.Signal(syscall.SIGTERM))

	status, err := proc.Wait()
	require.NoError(t, err)
	assert.True(t, status.Signaled)
	assert.Equal(t, syscall.SIGTERM, status.Signal)
	assert.Equal(t, 128+int(syscall.SIGTERM), status.Code)

	require.NoError(t, proc.Signal(syscall.SIGTERM))
}

func TestSpawn_CommandNotFound(t *testing.T) {
	host := shell.NewHost(shell.WithEnviron(hostEnv))

	_, err := host.Spawn(context.Background(), domain.Command{Args: []string{"sprout-test-no-such-command"}}, &domain.RealizedEnvironment{})
	require.ErrorIs(t, err, domain.ErrCommandNotFound)
	assert.Equal(t, domain.ExitCommandNotFound, domain.ExitCode(err))
}

func TestSpawn_DefaultShell(t *testing.T) {
	var stdout bytes.Buffer
	stdin := strings.NewReader("echo from-shell\nexit 3\n")
	host := shell.NewHost(
		shell.WithStdio(stdin, &stdout, &stdout),
		shell.WithEnviron(func() []string { return append(hostEnv(), "SHELL=/bin/sh") }),
	)

	proc, err := host.Spawn(context.Background(), domain.Command{}, &domain.RealizedEnvironment{})
	require.NoError(t, err)

	status, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, status.Code)
	assert.Equal(t, "from-shell\n", stdout.String())
}

func TestSpawn_InheritsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer func() { _ = ptmx.Close() }()

	host := shell.NewHost(shell.WithStdio(tty, tty, tty), shell.WithEnviron(hostEnv))
	proc, err := host.Spawn(context.Background(), domain.Command{
		Args: []string{"sh", "-c", "[ -t 0 ] && [ -t 1 ] && echo interactive"},
	}, &domain.RealizedEnvironment{})
	require.NoError(t, err)
	require.NoError(t, tty.Close())

	line, err := bufio.NewReader(ptmx).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "interactive", strings.TrimSpace(line))

	status, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, status.Code)
}

func TestSpawn_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := shell.NewHost(shell.WithEnviron(hostEnv)).Spawn(ctx, domain.Command{Args: []string{"true"}}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
