package detector

import (
	"path/filepath"

	"golang.org/x/mod/modfile"
)

func readGoMod(dir string) (Facts, error) {
	var facts Facts

	path := filepath.Join(dir, "go.mod")
	data, err := readOptional(path)
	if err != nil || data == nil {
		return facts, err
	}

	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return facts, malformed(err, path)
	}

	names := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		names = append(names, r.Mod.Path)
	}
	facts.Dependencies = sortedUnique(names)
	return facts, nil
}
