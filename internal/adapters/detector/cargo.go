package detector

import (
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type cargoMetadata struct {
	Sprout *declaration `toml:"sprout"`
}

type cargoManifest struct {
	Package struct {
		Metadata cargoMetadata `toml:"metadata"`
	} `toml:"package"`
	Workspace struct {
		Metadata cargoMetadata `toml:"metadata"`
	} `toml:"workspace"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

type cargoLock struct {
	Package []struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// readCargo reads Cargo.toml and, when present, Cargo.lock. The lock file
// lists the full crate graph, so it is preferred for dependency names.
func readCargo(dir string) (Facts, error) {
	var facts Facts

	manifestPath := filepath.Join(dir, "Cargo.toml")
	data, err := readOptional(manifestPath)
	if err != nil || data == nil {
		return facts, err
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return facts, malformed(err, manifestPath)
	}

	pkg, pkgProblems := manifest.Package.Metadata.Sprout.contribution("Cargo.toml [package.metadata.sprout]")
	ws, wsProblems := manifest.Workspace.Metadata.Sprout.contribution("Cargo.toml [workspace.metadata.sprout]")
	facts.Declared = pkg.Merge(ws)
	facts.Problems = append(pkgProblems, wsProblems...)

	lockPath := filepath.Join(dir, "Cargo.lock")
	lockData, err := readOptional(lockPath)
	if err != nil {
		return facts, err
	}
	if lockData != nil {
		var lock cargoLock
		if err := toml.Unmarshal(lockData, &lock); err != nil {
			return facts, malformed(err, lockPath)
		}
		names := make([]string, 0, len(lock.Package))
		for _, p := range lock.Package {
			names = append(names, p.Name)
		}
		facts.Dependencies = sortedUnique(names)
		return facts, nil
	}

	facts.Dependencies = sortedKeys(manifest.Dependencies, manifest.DevDependencies, manifest.BuildDependencies)
	return facts, nil
}
