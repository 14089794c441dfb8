package detector

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
)

// Facts is what a manifest reader extracts from one directory.
type Facts struct {
	Dependencies []string
	Declared     domain.Contribution
	Problems     []string
}

// ManifestReader extracts dependency names and project-declared inputs from a directory.
type ManifestReader interface {
	Read(dir string) (Facts, error)
}

// ManifestReaderFunc adapts a function to ManifestReader.
type ManifestReaderFunc func(dir string) (Facts, error)

// Read calls f(dir).
func (f ManifestReaderFunc) Read(dir string) (Facts, error) {
	return f(dir)
}

// DefaultReaders returns the built-in manifest readers keyed by kind.
func DefaultReaders() map[domain.ManifestKind]ManifestReader {
	return map[domain.ManifestKind]ManifestReader{
		domain.ManifestCargo:        ManifestReaderFunc(readCargo),
		domain.ManifestNPM:          ManifestReaderFunc(readPackageJSON),
		domain.ManifestGoMod:        ManifestReaderFunc(readGoMod),
		domain.ManifestPyProject:    ManifestReaderFunc(readPyProject),
		domain.ManifestRequirements: ManifestReaderFunc(readRequirements),
	}
}

// declaration is the project-declared section shared by every manifest format.
type declaration struct {
	BuildInputs          []string          `toml:"build-inputs" json:"build-inputs"`
	RuntimeInputs        []string          `toml:"runtime-inputs" json:"runtime-inputs"`
	EnvironmentVariables map[string]string `toml:"environment-variables" json:"environment-variables"`
}

func (d *declaration) contribution(source string) (domain.Contribution, []string) {
	var c domain.Contribution
	var problems []string
	if d == nil {
		return c, nil
	}

	parse := func(refs []string) []domain.BuildInput {
		out := make([]domain.BuildInput, 0, len(refs))
		for _, ref := range refs {
			in, err := domain.ParseBuildInput(ref)
			if err != nil {
				problems = append(problems, source+": ignoring build input "+strings.TrimSpace(ref)+": empty attribute segment")
				continue
			}
			out = append(out, in)
		}
		return out
	}

	c.Inputs = parse(d.BuildInputs)
	c.RuntimeInputs = parse(d.RuntimeInputs)
	if len(d.EnvironmentVariables) > 0 {
		c.Variables = make(map[string]string, len(d.EnvironmentVariables))
		for k, v := range d.EnvironmentVariables {
			c.Variables[k] = v
		}
	}
	return c, problems
}

// readOptional returns nil data without error when the file does not exist.
func readOptional(path string) ([]byte, error) {
	//nolint:gosec // path is a manifest inside the scanned project
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	return data, nil
}

func malformed(err error, path string) error {
	return zerr.With(zerr.Wrap(err, "malformed manifest"), "path", path)
}

var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// normalizePythonName applies PEP 503 normalization.
func normalizePythonName(s string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(s, "-"))
}

// requirementPackage extracts the distribution name from a PEP 508 requirement.
func requirementPackage(req string) (string, bool) {
	m := requirementName.FindStringSubmatch(req)
	if m == nil {
		return "", false
	}
	return normalizePythonName(m[1]), true
}

func sortedKeys[V any](maps ...map[string]V) []string {
	var out []string
	for _, m := range maps {
		for k := range m {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func sortedUnique(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
