// Package detector finds ecosystem signals in a project tree and inspects the terminal the CLI runs in.
package detector

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scanner implements ports.SignalDetector by matching marker globs against
// the project root and a fixed set of conventional subdirectories.
type Scanner struct {
	rules   *domain.RuleTable
	readers map[domain.ManifestKind]ManifestReader
}

var _ ports.SignalDetector = (*Scanner)(nil)

// NewScanner creates a Scanner with the default manifest readers.
func NewScanner(rules *domain.RuleTable) *Scanner {
	return NewScannerWithReaders(rules, DefaultReaders())
}

// NewScannerWithReaders creates a Scanner with custom manifest readers.
func NewScannerWithReaders(rules *domain.RuleTable, readers map[domain.ManifestKind]ManifestReader) *Scanner {
	return &Scanner{rules: rules, readers: readers}
}

type match struct {
	markers []string
	dirs    []string
}

// Detect scans root and returns a report in rule-table order.
func (s *Scanner) Detect(ctx context.Context, root string) (*domain.DetectionReport, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectUnreadable, err.Error()), "path", root)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectUnreadable, err.Error()), "path", abs)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectUnreadable, "not a directory"), "path", abs)
	}

	rootNames, err := listNames(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectUnreadable, err.Error()), "path", abs)
	}

	report := &domain.DetectionReport{Root: abs}
	matches := make(map[domain.EcosystemID]*match)

	s.matchDir(abs, abs, rootNames, matches)

	for _, sub := range s.rules.Subdirectories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.rules.Ignored(sub) || !slices.Contains(rootNames, sub) {
			continue
		}
		dir := filepath.Join(abs, sub)
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}
		names, err := listNames(dir)
		if err != nil {
			report.Warnings = append(report.Warnings, domain.Warning{
				Phase:   domain.PhaseDetect,
				Subject: sub,
				Message: "directory is not readable, skipping",
			})
			continue
		}
		s.matchDir(abs, dir, names, matches)
	}

	for _, eco := range s.rules.Ecosystems() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, ok := matches[eco.ID]
		if !ok {
			continue
		}
		slices.Sort(m.markers)
		det := domain.Detection{Ecosystem: eco, Markers: m.markers}
		report.Warnings = append(report.Warnings, s.inspect(abs, eco, m.dirs, &det)...)
		report.Detections = append(report.Detections, det)
	}

	return report, nil
}

// matchDir records every ecosystem with a marker among names.
func (s *Scanner) matchDir(root, dir string, names []string, matches map[domain.EcosystemID]*match) {
	for _, eco := range s.rules.Ecosystems() {
		var hits []string
		for _, name := range names {
			for _, pattern := range eco.Markers {
				if ok, _ := filepath.Match(pattern, name); ok {
					hits = append(hits, relTo(root, filepath.Join(dir, name)))
					break
				}
			}
		}
		if len(hits) == 0 {
			continue
		}
		m, ok := matches[eco.ID]
		if !ok {
			m = &match{}
			matches[eco.ID] = m
		}
		m.markers = append(m.markers, hits...)
		m.dirs = append(m.dirs, dir)
	}
}

// inspect runs the ecosystem's manifest reader over every matched directory.
func (s *Scanner) inspect(root string, eco *domain.Ecosystem, dirs []string, det *domain.Detection) []domain.Warning {
	reader, ok := s.readers[eco.Manifest]
	if eco.Manifest == domain.ManifestNone || !ok {
		return nil
	}

	var warnings []domain.Warning
	var deps []string
	for _, dir := range dirs {
		facts, err := reader.Read(dir)
		subject := relTo(root, dir)
		if err != nil {
			warnings = append(warnings, domain.Warning{
				Phase:   domain.PhaseDetect,
				Subject: string(eco.ID),
				Message: subject + ": " + err.Error(),
			})
			continue
		}
		for _, p := range facts.Problems {
			warnings = append(warnings, domain.Warning{
				Phase:   domain.PhaseDetect,
				Subject: string(eco.ID),
				Message: subject + ": " + p,
			})
		}
		deps = append(deps, facts.Dependencies...)
		det.Declared = det.Declared.Merge(facts.Declared)
	}
	det.Dependencies = sortedUnique(deps)
	return warnings
}

func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}
