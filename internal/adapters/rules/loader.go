// Package rules loads the rule table that maps ecosystems and their
// dependencies to build inputs.
package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only rules file version understood by this build.
const SchemaVersion = "1"

//go:embed rules.yaml
var builtin []byte

var manifestKinds = map[string]domain.ManifestKind{
	"":             domain.ManifestNone,
	"cargo":        domain.ManifestCargo,
	"npm":          domain.ManifestNPM,
	"gomod":        domain.ManifestGoMod,
	"pyproject":    domain.ManifestPyProject,
	"requirements": domain.ManifestRequirements,
}

// Load returns the built-in rule table, overlaid with the rules file at
// overridePath when it is not empty. Ecosystems and packages in the override
// replace built-in entries with the same key.
func Load(overridePath string) (*domain.RuleTable, error) {
	base, err := Parse(builtin)
	if err != nil {
		return nil, zerr.Wrap(err, "built-in rules are invalid")
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath) //nolint:gosec // path is provided by user
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read rules file"), "path", overridePath)
		}
		override, err := Parse(data)
		if err != nil {
			return nil, zerr.With(err, "path", overridePath)
		}
		base = Merge(base, override)
	}

	return Build(base)
}

// Parse decodes a rules file, rejecting unknown fields.
func Parse(data []byte) (*Rulefile, error) {
	var rf Rulefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(zerr.Wrap(domain.ErrInvalidRuleTable, err.Error()), "failed to parse rules file")
	}
	if rf.Version != "" && rf.Version != SchemaVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidRuleTable, "unsupported rules version"), "version", rf.Version)
	}
	return &rf, nil
}

// Merge overlays override onto base and returns the result. Neither argument is modified.
func Merge(base, override *Rulefile) *Rulefile {
	out := &Rulefile{
		Version:    SchemaVersion,
		Scan:       base.Scan,
		Packages:   make(map[string]PackageDTO, len(base.Packages)+len(override.Packages)),
		Ecosystems: make(map[string]EcosystemDTO, len(base.Ecosystems)+len(override.Ecosystems)),
	}
	if len(override.Scan.Subdirectories) > 0 {
		out.Scan.Subdirectories = override.Scan.Subdirectories
	}
	if len(override.Scan.Ignore) > 0 {
		out.Scan.Ignore = override.Scan.Ignore
	}
	for _, src := range []*Rulefile{base, override} {
		for k, v := range src.Packages {
			out.Packages[k] = v
		}
		for k, v := range src.Ecosystems {
			out.Ecosystems[k] = v
		}
	}
	return out
}

// Build converts a decoded rules file into a validated RuleTable.
func Build(rf *Rulefile) (*domain.RuleTable, error) {
	ecosystems := make([]domain.Ecosystem, 0, len(rf.Ecosystems))
	for id, dto := range rf.Ecosystems {
		eco, err := toEcosystem(id, dto)
		if err != nil {
			return nil, zerr.With(err, "ecosystem", id)
		}
		ecosystems = append(ecosystems, eco)
	}

	packages := make(map[string]domain.PackageRule, len(rf.Packages))
	for ref, dto := range rf.Packages {
		in, err := domain.ParseBuildInput(ref)
		if err != nil {
			return nil, zerr.Wrap(domain.ErrInvalidRuleTable, err.Error())
		}
		packages[in.Ref()] = domain.PackageRule{Platforms: dto.Platforms}
	}

	return domain.NewRuleTable(ecosystems, packages, domain.ScanRules{
		Subdirectories: rf.Scan.Subdirectories,
		Ignore:         rf.Scan.Ignore,
	})
}

func toEcosystem(id string, dto EcosystemDTO) (domain.Ecosystem, error) {
	kind, ok := manifestKinds[dto.Manifest]
	if !ok {
		return domain.Ecosystem{}, zerr.With(zerr.Wrap(domain.ErrInvalidRuleTable, "unknown manifest kind"), "manifest", dto.Manifest)
	}

	defaults, err := toContribution(ContributionDTO{
		Inputs:        dto.Inputs,
		RuntimeInputs: dto.RuntimeInputs,
		Environment:   dto.Environment,
	})
	if err != nil {
		return domain.Ecosystem{}, err
	}

	eco := domain.Ecosystem{
		ID:       domain.EcosystemID(id),
		Name:     dto.Name,
		Markers:  dto.Markers,
		Priority: dto.Priority,
		Manifest: kind,
		Defaults: defaults,
	}

	if len(dto.Dependencies) > 0 {
		eco.Dependencies = make(map[string]domain.Contribution, len(dto.Dependencies))
		for name, dep := range dto.Dependencies {
			c, err := toContribution(dep)
			if err != nil {
				return domain.Ecosystem{}, zerr.With(err, "dependency", name)
			}
			eco.Dependencies[name] = c
		}
	}

	if len(dto.Platforms) > 0 {
		eco.Platforms = make(map[string]domain.PlatformOverride, len(dto.Platforms))
		for sel, o := range dto.Platforms {
			override, err := toOverride(o)
			if err != nil {
				return domain.Ecosystem{}, zerr.With(err, "platform", sel)
			}
			eco.Platforms[sel] = override
		}
	}

	return eco, nil
}

func toContribution(dto ContributionDTO) (domain.Contribution, error) {
	inputs, err := parseInputs(dto.Inputs)
	if err != nil {
		return domain.Contribution{}, err
	}
	runtime, err := parseInputs(dto.RuntimeInputs)
	if err != nil {
		return domain.Contribution{}, err
	}
	return domain.Contribution{Inputs: inputs, RuntimeInputs: runtime, Variables: dto.Environment}, nil
}

func toOverride(dto OverrideDTO) (domain.PlatformOverride, error) {
	add, err := parseInputs(dto.Add)
	if err != nil {
		return domain.PlatformOverride{}, err
	}
	addRuntime, err := parseInputs(dto.AddRuntime)
	if err != nil {
		return domain.PlatformOverride{}, err
	}
	remove, err := parseInputs(dto.Remove)
	if err != nil {
		return domain.PlatformOverride{}, err
	}
	return domain.PlatformOverride{Add: add, AddRuntime: addRuntime, Remove: remove, Variables: dto.Environment}, nil
}

func parseInputs(refs []string) ([]domain.BuildInput, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]domain.BuildInput, 0, len(refs))
	for _, ref := range refs {
		in, err := domain.ParseBuildInput(ref)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidRuleTable, "invalid build input"), "input", ref)
		}
		out = append(out, in)
	}
	return out, nil
}
