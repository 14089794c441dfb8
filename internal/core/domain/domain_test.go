package domain_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestParseBuildInput(t *testing.T) {
	tests := []struct {
		ref      string
		wantPath []string
		wantName string
		wantErr  bool
	}{
		{ref: "cargo", wantName: "cargo", wantPath: []string{}},
		{ref: "darwin.apple_sdk.frameworks.Security", wantPath: []string{"darwin", "apple_sdk", "frameworks"}, wantName: "Security"},
		{ref: " openssl ", wantName: "openssl", wantPath: []string{}},
		{ref: "", wantErr: true},
		{ref: "a..b", wantErr: true},
		{ref: ".a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			in, err := domain.ParseBuildInput(tt.ref)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidBuildInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, in.Name)
			assert.Equal(t, tt.wantPath, in.Path)
		})
	}
}

func TestInputSet_UnionIsIdempotent(t *testing.T) {
	a := domain.MustParseBuildInput("openssl")
	b := domain.MustParseBuildInput("darwin.apple_sdk.frameworks.Security")

	set := domain.InputSet{}
	set.Add(b, a)
	once := set.Sorted()

	set.Add(a, b, a)
	assert.Equal(t, once, set.Sorted())
	assert.Equal(t, []string{"darwin.apple_sdk.frameworks.Security", "openssl"}, domain.Refs(set.Sorted()))

	set.Remove(a)
	assert.False(t, set.Has(a))
	assert.True(t, set.Has(b))
}

func TestPlatform_SystemAndMatches(t *testing.T) {
	p := domain.Platform{OS: "darwin", Arch: "arm64"}
	assert.Equal(t, "aarch64-darwin", p.System())
	assert.True(t, p.Matches("darwin"))
	assert.True(t, p.Matches("aarch64-darwin"))
	assert.True(t, p.Matches("*"))
	assert.False(t, p.Matches("linux"))
	assert.False(t, p.Matches("x86_64-darwin"))

	linux := domain.Platform{OS: "linux", Arch: "amd64"}
	assert.Equal(t, "x86_64-linux", linux.System())
}

func TestParsePlatform(t *testing.T) {
	p, err := domain.ParsePlatform("aarch64-linux")
	require.NoError(t, err)
	assert.Equal(t, domain.Platform{OS: "linux", Arch: "arm64"}, p)

	_, err = domain.ParsePlatform("linux")
	require.ErrorIs(t, err, domain.ErrUnknownPlatform)

	_, err = domain.ParsePlatform("sparc-solaris")
	require.ErrorIs(t, err, domain.ErrUnknownPlatform)
}

func TestEnvironmentSpec_ID(t *testing.T) {
	a := domain.EnvironmentSpec{Text: "pkgs.mkShell { }"}
	b := domain.EnvironmentSpec{Text: "pkgs.mkShell { }"}
	c := domain.EnvironmentSpec{Text: "pkgs.mkShell { name = \"x\"; }"}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.NotEmpty(t, a.ID())
}

func TestRealizedEnvironment_Lookup(t *testing.T) {
	env := &domain.RealizedEnvironment{Variables: []string{"PATH=/nix/store/a/bin", "PATHEXT=x"}}

	v, ok := env.Lookup("PATH")
	require.True(t, ok)
	assert.Equal(t, "/nix/store/a/bin", v)

	_, ok = env.Lookup("HOME")
	assert.False(t, ok)
}

func TestSession_Transitions(t *testing.T) {
	s := domain.NewSession()
	require.Equal(t, domain.StateIdle, s.State())

	require.NoError(t, s.Transition(domain.StateBuilding))
	require.NoError(t, s.Transition(domain.StateBuilt))
	require.NoError(t, s.Transition(domain.StateRunning))
	require.NoError(t, s.Transition(domain.StateExited))
	assert.True(t, s.State().Terminal())

	err := s.Transition(domain.StateRunning)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, []domain.SessionState{
		domain.StateIdle, domain.StateBuilding, domain.StateBuilt, domain.StateRunning, domain.StateExited,
	}, s.History())
}

func TestSession_CannotRunWithoutBuild(t *testing.T) {
	s := domain.NewSession()
	require.ErrorIs(t, s.Transition(domain.StateRunning), domain.ErrInvalidTransition)

	require.NoError(t, s.Transition(domain.StateBuilding))
	require.NoError(t, s.Transition(domain.StateBuildFailed))
	require.ErrorIs(t, s.Transition(domain.StateRunning), domain.ErrInvalidTransition)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "hosted passthrough", err: &domain.HostedExit{Status: domain.ExitStatus{Code: 7}}, want: 7},
		{
			name: "hosted signal",
			err:  &domain.HostedExit{Status: domain.ExitStatus{Code: 130, Signaled: true, Signal: syscall.SIGINT}},
			want: 130,
		},
		{name: "build failure", err: domain.WithPhase(&domain.BuildFailure{Tool: "nix", ExitCode: 1}, domain.PhaseBuild), want: domain.ExitBuildFailed},
		{name: "missing tool", err: zerr.Wrap(domain.ErrBuildToolNotFound, "nix"), want: domain.ExitBuildFailed},
		{name: "interrupted", err: domain.WithPhase(domain.ErrBuildInterrupted, domain.PhaseBuild), want: domain.ExitInterrupted},
		{name: "unreadable project", err: domain.WithPhase(zerr.Wrap(domain.ErrProjectUnreadable, "scan"), domain.PhaseDetect), want: domain.ExitEnvironmentFailed},
		{name: "synthesis", err: domain.WithPhase(domain.ErrUnencodableInput, domain.PhaseSynthesize), want: domain.ExitEnvironmentFailed},
		{name: "command not found", err: domain.WithPhase(zerr.Wrap(domain.ErrCommandNotFound, "cargo"), domain.PhaseRun), want: domain.ExitCommandNotFound},
		{name: "not executable", err: zerr.Wrap(domain.ErrCommandNotExecutable, "x"), want: domain.ExitNotExecutable},
		{name: "other", err: errors.New("boom"), want: domain.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExitCode(tt.err))
		})
	}
}

func TestWithPhase(t *testing.T) {
	assert.NoError(t, domain.WithPhase(nil, domain.PhaseBuild))

	err := domain.WithPhase(domain.ErrCacheMiss, domain.PhaseBuild)
	assert.Equal(t, domain.PhaseBuild, domain.PhaseOf(err))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, "build: cache miss", err.Error())

	again := domain.WithPhase(err, domain.PhaseRun)
	assert.Equal(t, domain.PhaseBuild, domain.PhaseOf(again))
}
