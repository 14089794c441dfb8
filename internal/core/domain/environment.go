package domain

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Variable is an environment variable carried by the environment expression.
type Variable struct {
	Name  string
	Value string
}

// ResolvedEnvironment is the platform-specific set of inputs for one project.
type ResolvedEnvironment struct {
	Root          string
	Platform      Platform
	Ecosystems    []EcosystemID
	Inputs        []BuildInput
	RuntimeInputs []BuildInput
	Variables     []Variable
	Warnings      []Warning
}

// Empty reports whether the environment contributes nothing.
func (e *ResolvedEnvironment) Empty() bool {
	return len(e.Inputs) == 0 && len(e.RuntimeInputs) == 0 && len(e.Variables) == 0
}

// EnvironmentSpec is the synthesized environment expression.
type EnvironmentSpec struct {
	System string
	Text   string
}

// ID returns a content hash of the expression, used as the cache key.
func (s EnvironmentSpec) ID() string {
	return strconv.FormatUint(xxhash.Sum64String(s.Text), 16)
}

// RealizedEnvironment is the environment produced by the build tool.
type RealizedEnvironment struct {
	SpecID    string   `json:"spec_id"`
	Variables []string `json:"variables"`
	Cached    bool     `json:"-"`
}

// Lookup returns the value of a realized variable.
func (e *RealizedEnvironment) Lookup(name string) (string, bool) {
	prefix := name + "="
	for _, kv := range e.Variables {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// Command is what the session hosts inside the realized environment.
// An empty Args starts the user's interactive shell.
type Command struct {
	Args []string
	Dir  string
}

// Interactive reports whether the command is the default interactive shell.
func (c Command) Interactive() bool {
	return len(c.Args) == 0
}
