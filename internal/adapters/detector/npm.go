package detector

import (
	"encoding/json"
	"path/filepath"
)

type packageJSON struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	Sprout               *declaration      `json:"sprout"`
}

func readPackageJSON(dir string) (Facts, error) {
	var facts Facts

	path := filepath.Join(dir, "package.json")
	data, err := readOptional(path)
	if err != nil || data == nil {
		return facts, err
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return facts, malformed(err, path)
	}

	facts.Dependencies = sortedKeys(pkg.Dependencies, pkg.DevDependencies, pkg.OptionalDependencies, pkg.PeerDependencies)
	facts.Declared, facts.Problems = pkg.Sprout.contribution(`package.json "sprout"`)
	return facts, nil
}
