package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/sprout/internal/build"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/ui/style"
	"go.trai.ch/zerr"
	"mvdan.cc/sh/v3/syntax"
)

// summary renders one detection as "✓ Name: input, input (VAR)".
func summary(d domain.Detection) string {
	eco := d.Ecosystem
	c := eco.Defaults
	for _, dep := range d.Dependencies {
		if extra, ok := eco.Dependencies[dep]; ok {
			c = c.Merge(extra)
		}
	}
	c = c.Merge(d.Declared)

	inputs := domain.InputSet{}
	inputs.Add(c.Inputs...)
	inputs.Add(c.RuntimeInputs...)

	var b strings.Builder
	b.WriteString(style.Check + " " + eco.Label())
	if refs := domain.Refs(inputs.Sorted()); len(refs) > 0 {
		b.WriteString(": " + strings.Join(refs, ", "))
	}
	if len(c.Variables) > 0 {
		b.WriteString(" (" + strings.Join(slices.Sorted(maps.Keys(c.Variables)), ", ") + ")")
	}
	return b.String()
}

// writeReport prints the detect command's output.
func writeReport(w io.Writer, p *plan) {
	_, _ = fmt.Fprintf(w, "Project: %s\n", p.root)
	_, _ = fmt.Fprintf(w, "System:  %s\n", p.resolved.Platform.System())

	if len(p.report.Detections) == 0 {
		_, _ = fmt.Fprintln(w, "No project toolchains detected.")
	}
	for _, d := range p.report.Detections {
		_, _ = fmt.Fprintf(w, "%s\n", summary(d))
		if len(d.Markers) > 0 {
			_, _ = fmt.Fprintf(w, "    markers: %s\n", strings.Join(d.Markers, ", "))
		}
	}

	list := func(label string, values []string) {
		if len(values) > 0 {
			_, _ = fmt.Fprintf(w, "%s: %s\n", label, strings.Join(values, ", "))
		}
	}
	list("Inputs", domain.Refs(p.resolved.Inputs))
	list("Runtime inputs", domain.Refs(p.resolved.RuntimeInputs))

	names := make([]string, len(p.resolved.Variables))
	for i, v := range p.resolved.Variables {
		names[i] = v.Name
	}
	list("Variables", names)

	for _, warning := range p.resolved.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Warning, warning)
	}
}

// writeExports prints env as shell export statements in name order. PATH
// is prepended to the caller's PATH.
func writeExports(w io.Writer, env *domain.RealizedEnvironment, root string) error {
	vars := slices.Clone(env.Variables)
	vars = append(vars, domain.ActiveEnvVar+"="+root, domain.EnvIDEnvVar+"="+env.SpecID)
	slices.Sort(vars)

	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		quoted, err := syntax.Quote(value, syntax.LangBash)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "variable cannot be quoted"), "name", name)
		}
		if name == "PATH" {
			quoted += "${PATH:+:$PATH}"
		}
		if _, err := fmt.Fprintf(w, "export %s=%s\n", name, quoted); err != nil {
			return zerr.Wrap(err, "failed to write environment")
		}
	}
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprintf(w, "%s [y/N] ", question)

	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// report sends the invocation's usage event. It never blocks.
func (a *App) report(subcommand string, report *domain.DetectionReport) {
	term := a.environment()

	ecosystems := make([]string, 0, len(report.Detections))
	for _, id := range report.Ecosystems() {
		ecosystems = append(ecosystems, string(id))
	}

	a.usage.Report(domain.UsageEvent{
		Version:           build.Version,
		IsTTY:             term.StdoutTTY,
		InCI:              term.CI,
		Subcommand:        subcommand,
		DetectedEcosystem: ecosystems,
	})
}
