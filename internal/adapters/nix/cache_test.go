package nix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/adapters/nix"
	"go.trai.ch/sprout/internal/core/domain"
)

func TestEnvCache_RoundTrip(t *testing.T) {
	cache := nix.NewEnvCache(t.TempDir())

	_, err := cache.Load("abc")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	env := &domain.RealizedEnvironment{SpecID: "abc", Variables: []string{"FOO=bar", "PATH=/usr/bin"}}
	require.NoError(t, cache.Store(env))

	got, err := cache.Load("abc")
	require.NoError(t, err)
	assert.True(t, got.Cached)
	assert.Equal(t, env.Variables, got.Variables)
	assert.False(t, env.Cached)

	info, err := os.Stat(filepath.Join(cache.Dir(), "abc.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.FilePerm), info.Mode().Perm())
}

func TestEnvCache_MissingStorePathIsMiss(t *testing.T) {
	cache := nix.NewEnvCache(t.TempDir())
	require.NoError(t, cache.Store(&domain.RealizedEnvironment{
		SpecID:    "gone",
		Variables: []string{"PATH=/nix/store/00000000000000000000000000000000-sprout-test-missing/bin:/usr/bin"},
	}))

	_, err := cache.Load("gone")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	_, err = os.Stat(filepath.Join(cache.Dir(), "gone.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvCache_CorruptEntryIsMiss(t *testing.T) {
	cache := nix.NewEnvCache(t.TempDir())
	require.NoError(t, os.MkdirAll(cache.Dir(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cache.Dir(), "bad.json"), []byte("{"), 0o600))

	_, err := cache.Load("bad")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestEnvCache_Clear(t *testing.T) {
	cache := nix.NewEnvCache(t.TempDir())
	require.NoError(t, cache.Store(&domain.RealizedEnvironment{SpecID: "a"}))
	require.NoError(t, cache.Clear())
	require.NoError(t, cache.Clear())

	_, err := cache.Load("a")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestEnvCache_StoreRequiresSpecID(t *testing.T) {
	require.Error(t, nix.NewEnvCache(t.TempDir()).Store(&domain.RealizedEnvironment{}))
}
