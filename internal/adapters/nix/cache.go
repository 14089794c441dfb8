package nix

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const storePrefix = "/nix/store/"

// EnvCache implements ports.EnvironmentCache with one JSON file per spec ID.
type EnvCache struct {
	dir   string
	group singleflight.Group
}

var _ ports.EnvironmentCache = (*EnvCache)(nil)

// NewEnvCache creates a cache rooted at cacheDir.
func NewEnvCache(cacheDir string) *EnvCache {
	return &EnvCache{dir: filepath.Join(cacheDir, domain.EnvDirName)}
}

// Dir returns the directory holding cached environments.
func (c *EnvCache) Dir() string {
	return c.dir
}

func (c *EnvCache) path(specID string) string {
	return filepath.Join(c.dir, specID+".json")
}

// Load returns the cached realization for specID. An entry that refers to
// store paths that no longer exist is a miss.
func (c *EnvCache) Load(specID string) (*domain.RealizedEnvironment, error) {
	result, err, _ := c.group.Do(specID, func() (any, error) {
		return LoadEnvFromCache(c.path(specID))
	})
	if err != nil {
		return nil, err
	}

	env := *result.(*domain.RealizedEnvironment)
	env.Variables = append([]string(nil), env.Variables...)
	env.Cached = true
	return &env, nil
}

// Store persists env under its spec ID.
func (c *EnvCache) Store(env *domain.RealizedEnvironment) error {
	if env.SpecID == "" {
		return zerr.New("realized environment has no spec id")
	}
	return SaveEnvToCache(c.path(env.SpecID), env)
}

// Clear removes every cached environment.
func (c *EnvCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear environment cache"), "path", c.dir)
	}
	return nil
}

// LoadEnvFromCache attempts to load a cached environment.
func LoadEnvFromCache(path string) (*domain.RealizedEnvironment, error) {
	//nolint:gosec // Path is constructed from trusted cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.Wrap(err, "failed to read cache file")
	}

	var env domain.RealizedEnvironment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(zerr.Wrap(domain.ErrCacheMiss, err.Error()), "failed to unmarshal cache")
	}

	if missing := missingStorePath(&env); missing != "" {
		_ = os.Remove(path)
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheMiss, "store path was garbage collected"), "store_path", missing)
	}

	return &env, nil
}

// missingStorePath returns the first store path on PATH that no longer exists.
func missingStorePath(env *domain.RealizedEnvironment) string {
	path, ok := env.Lookup("PATH")
	if !ok {
		return ""
	}
	for _, entry := range filepath.SplitList(path) {
		if !strings.HasPrefix(entry, storePrefix) {
			continue
		}
		if _, err := os.Stat(entry); err != nil {
			return entry
		}
	}
	return ""
}

// SaveEnvToCache saves an environment to the cache.
func SaveEnvToCache(path string, env *domain.RealizedEnvironment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal environment")
	}

	tmpFile, err := os.CreateTemp(dir, "env-cache-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache file")
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write cache file")
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp cache file")
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod cache file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp cache file")
	}

	return nil
}
