package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BuildInput is a package reference in the Nix package set: a name plus an
// optional attribute path, e.g. darwin.apple_sdk.frameworks + Security.
type BuildInput struct {
	Path []string
	Name string
}

// ParseBuildInput parses a dotted reference such as "python3Packages.pip".
func ParseBuildInput(ref string) (BuildInput, error) {
	segments := strings.Split(strings.TrimSpace(ref), ".")
	for _, s := range segments {
		if s == "" {
			return BuildInput{}, zerr.With(zerr.Wrap(ErrInvalidBuildInput, "empty attribute segment"), "input", ref)
		}
	}
	return BuildInput{
		Path: segments[:len(segments)-1],
		Name: segments[len(segments)-1],
	}, nil
}

// MustParseBuildInput is ParseBuildInput for references known to be valid.
func MustParseBuildInput(ref string) BuildInput {
	in, err := ParseBuildInput(ref)
	if err != nil {
		panic(err)
	}
	return in
}

// Segments returns the full attribute path including the name.
func (b BuildInput) Segments() []string {
	out := make([]string, 0, len(b.Path)+1)
	out = append(out, b.Path...)
	return append(out, b.Name)
}

// Ref is the canonical identity of the input.
func (b BuildInput) Ref() string {
	return strings.Join(b.Segments(), ".")
}

func (b BuildInput) String() string {
	return b.Ref()
}

// InputSet is a set of build inputs keyed by identity.
type InputSet map[string]BuildInput

// Add inserts inputs, ignoring ones already present.
func (s InputSet) Add(inputs ...BuildInput) {
	for _, in := range inputs {
		if _, ok := s[in.Ref()]; !ok {
			s[in.Ref()] = in
		}
	}
}

// Remove deletes inputs by identity.
func (s InputSet) Remove(inputs ...BuildInput) {
	for _, in := range inputs {
		delete(s, in.Ref())
	}
}

// Has reports whether an input with the same identity is present.
func (s InputSet) Has(in BuildInput) bool {
	_, ok := s[in.Ref()]
	return ok
}

// Sorted returns the inputs ordered by identity.
func (s InputSet) Sorted() []BuildInput {
	refs := make([]string, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	out := make([]BuildInput, 0, len(refs))
	for _, ref := range refs {
		out = append(out, s[ref])
	}
	return out
}

// Refs returns the identities of inputs in order.
func Refs(inputs []BuildInput) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Ref()
	}
	return out
}
