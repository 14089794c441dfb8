package domain

import (
	"cmp"
	"slices"
	"strings"
)

// EcosystemID identifies a toolchain family, e.g. "rust-cargo".
type EcosystemID string

// ManifestKind selects the reader that extracts dependency names and
// project-declared contributions for an ecosystem.
type ManifestKind string

const (
	ManifestNone         ManifestKind = ""
	ManifestCargo        ManifestKind = "cargo"
	ManifestNPM          ManifestKind = "npm"
	ManifestGoMod        ManifestKind = "gomod"
	ManifestPyProject    ManifestKind = "pyproject"
	ManifestRequirements ManifestKind = "requirements"
)

// Contribution is a set of build inputs, runtime inputs and variables added to an environment.
type Contribution struct {
	Inputs        []BuildInput
	RuntimeInputs []BuildInput
	Variables     map[string]string
}

// Empty reports whether the contribution adds nothing.
func (c Contribution) Empty() bool {
	return len(c.Inputs) == 0 && len(c.RuntimeInputs) == 0 && len(c.Variables) == 0
}

// Merge returns the union of c and other. Variables already set in c are kept.
func (c Contribution) Merge(other Contribution) Contribution {
	out := Contribution{
		Inputs:        append(slices.Clone(c.Inputs), other.Inputs...),
		RuntimeInputs: append(slices.Clone(c.RuntimeInputs), other.RuntimeInputs...),
	}
	if len(c.Variables)+len(other.Variables) > 0 {
		out.Variables = make(map[string]string, len(c.Variables)+len(other.Variables))
		for k, v := range other.Variables {
			out.Variables[k] = v
		}
		for k, v := range c.Variables {
			out.Variables[k] = v
		}
	}
	return out
}

func (c Contribution) clone() Contribution {
	out := Contribution{
		Inputs:        slices.Clone(c.Inputs),
		RuntimeInputs: slices.Clone(c.RuntimeInputs),
	}
	if c.Variables != nil {
		out.Variables = make(map[string]string, len(c.Variables))
		for k, v := range c.Variables {
			out.Variables[k] = v
		}
	}
	return out
}

// PlatformOverride adjusts an ecosystem's contribution on matching platforms.
type PlatformOverride struct {
	Add        []BuildInput
	AddRuntime []BuildInput
	Remove     []BuildInput
	Variables  map[string]string
}

// Ecosystem describes how a toolchain family is detected and what it contributes.
type Ecosystem struct {
	ID       EcosystemID
	Name     string
	Markers  []string
	Priority int
	Manifest ManifestKind

	Defaults     Contribution
	Dependencies map[string]Contribution
	Platforms    map[string]PlatformOverride
}

// Label returns the display name, falling back to the ID.
func (e *Ecosystem) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return string(e.ID)
}

// Selectors returns the platform selectors in application order:
// the wildcard, then OS names, then system doubles, each sorted.
func (e *Ecosystem) Selectors() []string {
	keys := make([]string, 0, len(e.Platforms))
	for k := range e.Platforms {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if d := selectorRank(a) - selectorRank(b); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	return keys
}

func selectorRank(s string) int {
	switch {
	case s == SelectorAny:
		return 0
	case !strings.Contains(s, "-"):
		return 1
	default:
		return 2
	}
}

func (e *Ecosystem) clone() *Ecosystem {
	out := &Ecosystem{
		ID:       e.ID,
		Name:     e.Name,
		Markers:  slices.Clone(e.Markers),
		Priority: e.Priority,
		Manifest: e.Manifest,
		Defaults: e.Defaults.clone(),
	}
	if e.Dependencies != nil {
		out.Dependencies = make(map[string]Contribution, len(e.Dependencies))
		for k, v := range e.Dependencies {
			out.Dependencies[k] = v.clone()
		}
	}
	if e.Platforms != nil {
		out.Platforms = make(map[string]PlatformOverride, len(e.Platforms))
		for k, v := range e.Platforms {
			o := PlatformOverride{
				Add:        slices.Clone(v.Add),
				AddRuntime: slices.Clone(v.AddRuntime),
				Remove:     slices.Clone(v.Remove),
			}
			if v.Variables != nil {
				o.Variables = make(map[string]string, len(v.Variables))
				for vk, vv := range v.Variables {
					o.Variables[vk] = vv
				}
			}
			out.Platforms[k] = o
		}
	}
	return out
}

// CompareEcosystems orders ecosystems by descending priority, then ID.
func CompareEcosystems(a, b *Ecosystem) int {
	if a.Priority != b.Priority {
		return b.Priority - a.Priority
	}
	return cmp.Compare(a.ID, b.ID)
}

// Detection records one matched ecosystem.
type Detection struct {
	Ecosystem    *Ecosystem
	Markers      []string
	Dependencies []string
	Declared     Contribution
}

// DetectionReport is the output of a project scan.
type DetectionReport struct {
	Root       string
	Detections []Detection
	Warnings   []Warning
}

// Ecosystems returns the IDs of the detected ecosystems in report order.
func (r *DetectionReport) Ecosystems() []EcosystemID {
	out := make([]EcosystemID, len(r.Detections))
	for i, d := range r.Detections {
		out[i] = d.Ecosystem.ID
	}
	return out
}
