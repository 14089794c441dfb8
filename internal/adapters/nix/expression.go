package nix

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

// ShellName is the derivation name of the generated shell.
const ShellName = "sprout-shell"

const header = "# Generated by sprout. Do not edit.\n"

var (
	identifier   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'-]*$`)
	variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

var keywords = []string{"assert", "else", "if", "in", "inherit", "let", "or", "rec", "then", "with"}

// reservedAttrs are mkShell arguments, and the derivation attributes it
// passes through to mkDerivation, that a variable must not shadow.
var reservedAttrs = []string{
	"name", "buildInputs", "nativeBuildInputs", "propagatedBuildInputs",
	"packages", "inputsFrom", "shellHook", "stdenv", "passthru", "meta",
	"system", "builder", "args", "outputs", "phases", "buildPhase", "nobuildPhase",
	"preferLocalBuild", "allowSubstitutes", "passAsFile", "__structuredAttrs", "__ignoreNulls",
}

// Synthesizer implements ports.Synthesizer by rendering a mkShell expression.
type Synthesizer struct {
	nixpkgs string
}

var _ ports.Synthesizer = (*Synthesizer)(nil)

// NewSynthesizer creates a Synthesizer that takes packages from the nixpkgs flake reference.
func NewSynthesizer(nixpkgs string) *Synthesizer {
	if nixpkgs == "" {
		nixpkgs = domain.DefaultNixpkgs
	}
	return &Synthesizer{nixpkgs: nixpkgs}
}

// Synthesize renders env. Equal environments render byte-identical text.
func (s *Synthesizer) Synthesize(env *domain.ResolvedEnvironment) (domain.EnvironmentSpec, error) {
	spec, err := s.render(env)
	if err != nil {
		return domain.EnvironmentSpec{}, domain.WithPhase(err, domain.PhaseSynthesize)
	}
	return spec, nil
}

func (s *Synthesizer) render(env *domain.ResolvedEnvironment) (domain.EnvironmentSpec, error) {
	system := env.Platform.System()

	systemLit, err := quote(system)
	if err != nil {
		return domain.EnvironmentSpec{}, zerr.With(err, "system", system)
	}
	flakeLit, err := quote(s.nixpkgs)
	if err != nil {
		return domain.EnvironmentSpec{}, zerr.With(err, "nixpkgs", s.nixpkgs)
	}

	inputs := sortedInputs(env.Inputs)
	runtime := sortedInputs(env.RuntimeInputs)
	vars := slices.Clone(env.Variables)
	slices.SortFunc(vars, func(a, b domain.Variable) int { return strings.Compare(a.Name, b.Name) })

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("let\n")
	b.WriteString("  system = " + systemLit + ";\n")
	b.WriteString("  nixpkgs = builtins.getFlake " + flakeLit + ";\n")
	b.WriteString("  pkgs = nixpkgs.legacyPackages.${system};\n")
	b.WriteString("in\n")
	b.WriteString("pkgs.mkShell {\n")
	b.WriteString("  name = \"" + ShellName + "\";\n")

	if err := writeList(&b, "buildInputs", "[", inputs); err != nil {
		return domain.EnvironmentSpec{}, err
	}
	if len(runtime) > 0 {
		if err := writeList(&b, "LD_LIBRARY_PATH", "pkgs.lib.makeLibraryPath [", runtime); err != nil {
			return domain.EnvironmentSpec{}, err
		}
	}

	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if err := checkVariable(v.Name, len(runtime) > 0); err != nil {
			return domain.EnvironmentSpec{}, err
		}
		if seen[v.Name] {
			return domain.EnvironmentSpec{}, zerr.With(zerr.Wrap(domain.ErrInvalidVariable, "duplicate variable"), "variable", v.Name)
		}
		seen[v.Name] = true

		lit, err := quote(v.Value)
		if err != nil {
			return domain.EnvironmentSpec{}, zerr.With(err, "variable", v.Name)
		}
		b.WriteString("  " + attrName(v.Name) + " = " + lit + ";\n")
	}

	b.WriteString("}\n")

	return domain.EnvironmentSpec{System: system, Text: b.String()}, nil
}

func writeList(b *strings.Builder, attr, open string, inputs []domain.BuildInput) error {
	if len(inputs) == 0 {
		b.WriteString("  " + attr + " = " + open + " ];\n")
		return nil
	}
	b.WriteString("  " + attr + " = " + open + "\n")
	for _, in := range inputs {
		ref, err := attrPath(in)
		if err != nil {
			return err
		}
		b.WriteString("    " + ref + "\n")
	}
	b.WriteString("  ];\n")
	return nil
}

func sortedInputs(in []domain.BuildInput) []domain.BuildInput {
	set := domain.InputSet{}
	set.Add(in...)
	return set.Sorted()
}

// attrPath renders an input as a selection from pkgs.
func attrPath(in domain.BuildInput) (string, error) {
	parts := []string{"pkgs"}
	for _, seg := range in.Segments() {
		if seg == "" {
			return "", zerr.With(zerr.Wrap(domain.ErrUnencodableInput, "empty attribute segment"), "input", in.Ref())
		}
		if identifier.MatchString(seg) && !slices.Contains(keywords, seg) {
			parts = append(parts, seg)
			continue
		}
		lit, err := quote(seg)
		if err != nil {
			return "", zerr.With(err, "input", in.Ref())
		}
		parts = append(parts, lit)
	}
	return strings.Join(parts, "."), nil
}

func attrName(name string) string {
	if slices.Contains(keywords, name) {
		return `"` + name + `"`
	}
	return name
}

func checkVariable(name string, hasRuntime bool) error {
	if !variableName.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidVariable, "not a valid environment variable name"), "variable", name)
	}
	if slices.Contains(reservedAttrs, name) || (hasRuntime && name == "LD_LIBRARY_PATH") {
		return zerr.With(zerr.Wrap(domain.ErrInvalidVariable, "name is reserved by mkShell"), "variable", name)
	}
	return nil
}

// quote renders s as a Nix string literal.
func quote(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '$' && strings.HasPrefix(s[i:], "${"):
			b.WriteString(`\$`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			return "", zerr.With(zerr.Wrap(domain.ErrUnencodableInput, "control character"), "offset", i)
		case r == utf8.RuneError && invalidAt(s, i):
			return "", zerr.With(zerr.Wrap(domain.ErrUnencodableInput, "invalid UTF-8"), "offset", i)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

func invalidAt(s string, i int) bool {
	_, size := utf8.DecodeRuneInString(s[i:])
	return size == 1
}
