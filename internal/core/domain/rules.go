package domain

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// PackageRule records where a package is available. An empty platform list
// means the package is available everywhere.
type PackageRule struct {
	Platforms []string
}

// AvailableOn reports whether the package can be used on p.
func (r PackageRule) AvailableOn(p Platform) bool {
	if len(r.Platforms) == 0 {
		return true
	}
	for _, sel := range r.Platforms {
		if p.Matches(sel) {
			return true
		}
	}
	return false
}

// ScanRules bounds the detector's directory scan.
type ScanRules struct {
	Subdirectories []string
	Ignore         []string
}

// RuleTable is the immutable mapping from ecosystems to build inputs.
// It is built once and shared read-only by the detector and the resolver.
type RuleTable struct {
	ecosystems []*Ecosystem
	byID       map[EcosystemID]*Ecosystem
	packages   map[string]PackageRule
	scan       ScanRules
}

// NewRuleTable validates and copies its arguments into a RuleTable.
func NewRuleTable(ecosystems []Ecosystem, packages map[string]PackageRule, scan ScanRules) (*RuleTable, error) {
	t := &RuleTable{
		ecosystems: make([]*Ecosystem, 0, len(ecosystems)),
		byID:       make(map[EcosystemID]*Ecosystem, len(ecosystems)),
		packages:   make(map[string]PackageRule, len(packages)),
		scan: ScanRules{
			Subdirectories: slices.Clone(scan.Subdirectories),
			Ignore:         slices.Clone(scan.Ignore),
		},
	}

	for i := range ecosystems {
		eco := ecosystems[i].clone()
		if eco.ID == "" {
			return nil, zerr.Wrap(ErrInvalidRuleTable, "ecosystem without id")
		}
		if _, dup := t.byID[eco.ID]; dup {
			return nil, zerr.With(zerr.Wrap(ErrInvalidRuleTable, "duplicate ecosystem"), "ecosystem", string(eco.ID))
		}
		if len(eco.Markers) == 0 {
			return nil, zerr.With(zerr.Wrap(ErrInvalidRuleTable, "ecosystem has no markers"), "ecosystem", string(eco.ID))
		}
		for _, m := range eco.Markers {
			if _, err := filepath.Match(m, ""); err != nil {
				return nil, zerr.With(
					zerr.With(zerr.Wrap(ErrInvalidRuleTable, "malformed marker pattern"), "ecosystem", string(eco.ID)),
					"marker", m,
				)
			}
		}
		t.byID[eco.ID] = eco
		t.ecosystems = append(t.ecosystems, eco)
	}
	slices.SortFunc(t.ecosystems, CompareEcosystems)

	for name, rule := range packages {
		t.packages[name] = PackageRule{Platforms: slices.Clone(rule.Platforms)}
	}

	return t, nil
}

// Ecosystems returns all ecosystems ordered by descending priority, then ID.
// The returned ecosystems must not be modified.
func (t *RuleTable) Ecosystems() []*Ecosystem {
	return slices.Clone(t.ecosystems)
}

// Ecosystem looks up an ecosystem by ID.
func (t *RuleTable) Ecosystem(id EcosystemID) (*Ecosystem, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Package returns the availability rule for a package reference.
func (t *RuleTable) Package(ref string) (PackageRule, bool) {
	r, ok := t.packages[ref]
	return r, ok
}

// Subdirectories returns the conventional subdirectories scanned besides the root.
func (t *RuleTable) Subdirectories() []string {
	return slices.Clone(t.scan.Subdirectories)
}

// Ignored reports whether a directory name is never scanned.
func (t *RuleTable) Ignored(name string) bool {
	return slices.Contains(t.scan.Ignore, name)
}

func (t *RuleTable) String() string {
	return fmt.Sprintf("RuleTable(%d ecosystems, %d packages)", len(t.ecosystems), len(t.packages))
}
