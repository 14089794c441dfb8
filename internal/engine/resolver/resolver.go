// Package resolver maps a detection report and a platform to the build inputs
// and variables of a development environment.
package resolver

import (
	"slices"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
)

// Resolver implements ports.InputResolver against a rule table.
type Resolver struct {
	rules *domain.RuleTable
}

var _ ports.InputResolver = (*Resolver)(nil)

// New creates a Resolver.
func New(rules *domain.RuleTable) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve computes the environment for report on platform. It is a pure function
// of its arguments and the rule table; detection order does not matter.
func (r *Resolver) Resolve(report *domain.DetectionReport, platform domain.Platform) (*domain.ResolvedEnvironment, error) {
	if report == nil {
		return nil, domain.WithPhase(domain.ErrNoDetectionReport, domain.PhaseResolve)
	}

	detections := make([]domain.Detection, 0, len(report.Detections))
	for _, d := range report.Detections {
		if d.Ecosystem != nil {
			detections = append(detections, d)
		}
	}
	slices.SortStableFunc(detections, func(a, b domain.Detection) int {
		return domain.CompareEcosystems(a.Ecosystem, b.Ecosystem)
	})

	env := &domain.ResolvedEnvironment{
		Root:     report.Root,
		Platform: platform,
		Warnings: slices.Clone(report.Warnings),
	}

	inputs := domain.InputSet{}
	runtime := domain.InputSet{}
	vars := newVariables()

	for _, d := range detections {
		eco := d.Ecosystem
		if slices.Contains(env.Ecosystems, eco.ID) {
			continue
		}
		env.Ecosystems = append(env.Ecosystems, eco.ID)

		ecoInputs, ecoRuntime := domain.InputSet{}, domain.InputSet{}
		ecoInputs.Add(eco.Defaults.Inputs...)
		ecoRuntime.Add(eco.Defaults.RuntimeInputs...)

		depVars := make([]map[string]string, 0, len(d.Dependencies))
		for _, dep := range d.Dependencies {
			c, ok := eco.Dependencies[dep]
			if !ok {
				continue
			}
			ecoInputs.Add(c.Inputs...)
			ecoRuntime.Add(c.RuntimeInputs...)
			depVars = append(depVars, c.Variables)
		}

		overrides := matchingOverrides(eco, platform)
		for _, o := range overrides {
			ecoInputs.Add(o.Add...)
			ecoRuntime.Add(o.AddRuntime...)
		}
		for _, o := range overrides {
			ecoInputs.Remove(o.Remove...)
			ecoRuntime.Remove(o.Remove...)
		}

		ecoInputs.Add(d.Declared.Inputs...)
		ecoRuntime.Add(d.Declared.RuntimeInputs...)

		inputs.Add(ecoInputs.Sorted()...)
		runtime.Add(ecoRuntime.Sorted()...)

		// Within an ecosystem the project's own declaration is most specific.
		source := string(eco.ID)
		vars.set(source, d.Declared.Variables)
		for i := len(overrides) - 1; i >= 0; i-- {
			vars.set(source, overrides[i].Variables)
		}
		for _, m := range depVars {
			vars.set(source, m)
		}
		vars.set(source, eco.Defaults.Variables)
	}

	env.Inputs = r.available(inputs, platform, &env.Warnings)
	env.RuntimeInputs = r.available(runtime, platform, &env.Warnings)
	env.Variables = vars.sorted()
	env.Warnings = append(env.Warnings, vars.warnings...)

	return env, nil
}

// matchingOverrides returns the ecosystem's overrides for platform, least specific first.
func matchingOverrides(eco *domain.Ecosystem, platform domain.Platform) []domain.PlatformOverride {
	var out []domain.PlatformOverride
	for _, sel := range eco.Selectors() {
		if platform.Matches(sel) {
			out = append(out, eco.Platforms[sel])
		}
	}
	return out
}

// available drops inputs the rule table marks as unavailable on platform.
func (r *Resolver) available(set domain.InputSet, platform domain.Platform, warnings *[]domain.Warning) []domain.BuildInput {
	sorted := set.Sorted()
	out := make([]domain.BuildInput, 0, len(sorted))
	for _, in := range sorted {
		if rule, ok := r.rules.Package(in.Ref()); ok && !rule.AvailableOn(platform) {
			*warnings = append(*warnings, domain.Warning{
				Phase:   domain.PhaseResolve,
				Subject: in.Ref(),
				Message: "not available on " + platform.System() + ", skipping",
			})
			continue
		}
		out = append(out, in)
	}
	return out
}

type variables struct {
	values   map[string]string
	owners   map[string]string
	warnings []domain.Warning
}

func newVariables() *variables {
	return &variables{values: map[string]string{}, owners: map[string]string{}}
}

// set records each variable unless it is already set. A conflicting value from
// a different ecosystem yields a warning.
func (v *variables) set(source string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		existing, ok := v.values[k]
		if !ok {
			v.values[k] = m[k]
			v.owners[k] = source
			continue
		}
		if existing != m[k] && v.owners[k] != source {
			v.warnings = append(v.warnings, domain.Warning{
				Phase:   domain.PhaseResolve,
				Subject: k,
				Message: "set by " + v.owners[k] + ", ignoring value from " + source,
			})
		}
	}
}

func (v *variables) sorted() []domain.Variable {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]domain.Variable, len(keys))
	for i, k := range keys {
		out[i] = domain.Variable{Name: k, Value: v.values[k]}
	}
	return out
}
