package nix

import (
	"encoding/json"
	"slices"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
)

// devEnvOutput represents the JSON structure from `nix print-dev-env --json`.
type devEnvOutput struct {
	Variables map[string]devEnvVariable `json:"variables"`
}

type devEnvVariable struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// excludedVars are shell bookkeeping and per-user variables that must keep the
// host's values inside the environment.
var excludedVars = []string{
	"TERM",
	"SHELL",
	"EDITOR",
	"VISUAL",
	"PAGER",
	"LESS",
	"HOME",
	"USER",
	"LOGNAME",
	"PS1",
	"PS2",
	"SHLVL",
	"PWD",
	"OLDPWD",
	"_",
	"TMPDIR",
	"TEMP",
	"TMP",
	"TEMPDIR",
	"TZ",
	"NIX_BUILD_TOP",
	"NIX_BUILD_CORES",
	"NIX_LOG_FD",
	"NIX_SSL_CERT_FILE",
	"SSL_CERT_FILE",
	"SOURCE_DATE_EPOCH",
	"HOSTTYPE",
	"MACHTYPE",
	"OSTYPE",
}

// ShouldIncludeVar reports whether a realized variable is carried into the hosted process.
func ShouldIncludeVar(key string) bool {
	return !slices.Contains(excludedVars, key)
}

// ParseDevEnv extracts exported variables from `nix print-dev-env --json`
// output as sorted KEY=VALUE strings.
func ParseDevEnv(data []byte) ([]string, error) {
	var output devEnvOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, zerr.Wrap(zerr.Wrap(domain.ErrInvalidBuildOutput, err.Error()), "failed to parse nix output")
	}
	if output.Variables == nil {
		return nil, zerr.Wrap(domain.ErrInvalidBuildOutput, "nix output has no variables")
	}

	env := make([]string, 0, len(output.Variables))
	for key, variable := range output.Variables {
		if variable.Type != "exported" || !ShouldIncludeVar(key) {
			continue
		}

		var value string
		if err := json.Unmarshal(variable.Value, &value); err != nil {
			continue
		}

		env = append(env, key+"="+value)
	}

	slices.Sort(env)
	return env, nil
}
