package rules

// Rulefile represents the structure of a rules.yaml file.
type Rulefile struct {
	Version    string                  `yaml:"version"`
	Scan       ScanDTO                 `yaml:"scan"`
	Packages   map[string]PackageDTO   `yaml:"packages"`
	Ecosystems map[string]EcosystemDTO `yaml:"ecosystems"`
}

// ScanDTO bounds the directories the detector looks at.
type ScanDTO struct {
	Subdirectories []string `yaml:"subdirectories"`
	Ignore         []string `yaml:"ignore"`
}

// PackageDTO restricts a package to a set of platform selectors.
type PackageDTO struct {
	Platforms []string `yaml:"platforms"`
}

// EcosystemDTO represents an ecosystem definition in the rules file.
type EcosystemDTO struct {
	Name          string                     `yaml:"name"`
	Markers       []string                   `yaml:"markers"`
	Priority      int                        `yaml:"priority"`
	Manifest      string                     `yaml:"manifest"`
	Inputs        []string                   `yaml:"inputs"`
	RuntimeInputs []string                   `yaml:"runtimeInputs"`
	Environment   map[string]string          `yaml:"environment"`
	Dependencies  map[string]ContributionDTO `yaml:"dependencies"`
	Platforms     map[string]OverrideDTO     `yaml:"platforms"`
}

// ContributionDTO is what a known dependency adds to the environment.
type ContributionDTO struct {
	Inputs        []string          `yaml:"inputs"`
	RuntimeInputs []string          `yaml:"runtimeInputs"`
	Environment   map[string]string `yaml:"environment"`
}

// OverrideDTO adjusts an ecosystem on matching platforms.
type OverrideDTO struct {
	Add         []string          `yaml:"add"`
	AddRuntime  []string          `yaml:"addRuntime"`
	Remove      []string          `yaml:"remove"`
	Environment map[string]string `yaml:"environment"`
}
