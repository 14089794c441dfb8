package detector

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
			Group        map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
		Sprout *declaration `toml:"sprout"`
	} `toml:"tool"`
}

func readPyProject(dir string) (Facts, error) {
	var facts Facts

	path := filepath.Join(dir, "pyproject.toml")
	data, err := readOptional(path)
	if err != nil || data == nil {
		return facts, err
	}

	var proj pyproject
	if err := toml.Unmarshal(data, &proj); err != nil {
		return facts, malformed(err, path)
	}

	var names []string
	addReq := func(req string) {
		if name, ok := requirementPackage(req); ok {
			names = append(names, name)
		}
	}
	for _, req := range proj.Project.Dependencies {
		addReq(req)
	}
	for _, group := range proj.Project.OptionalDependencies {
		for _, req := range group {
			addReq(req)
		}
	}
	for name := range proj.Tool.Poetry.Dependencies {
		if name != "python" {
			names = append(names, normalizePythonName(name))
		}
	}
	for _, group := range proj.Tool.Poetry.Group {
		for name := range group.Dependencies {
			names = append(names, normalizePythonName(name))
		}
	}

	facts.Dependencies = sortedUnique(names)
	facts.Declared, facts.Problems = proj.Tool.Sprout.contribution("pyproject.toml [tool.sprout]")
	return facts, nil
}

func readRequirements(dir string) (Facts, error) {
	var facts Facts

	path := filepath.Join(dir, "requirements.txt")
	data, err := readOptional(path)
	if err != nil || data == nil {
		return facts, err
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if name, ok := requirementPackage(line); ok {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return facts, malformed(err, path)
	}

	facts.Dependencies = sortedUnique(names)
	return facts, nil
}
