package domain

import (
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Platform identifies the operating system and CPU architecture an environment is built for.
type Platform struct {
	OS   string
	Arch string
}

// SelectorAny matches every platform.
const SelectorAny = "*"

var nixArch = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"arm":     "armv7l",
	"riscv64": "riscv64",
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// System returns the Nix system double, e.g. "x86_64-linux".
func (p Platform) System() string {
	arch, ok := nixArch[p.Arch]
	if !ok {
		arch = p.Arch
	}
	return arch + "-" + p.OS
}

func (p Platform) String() string {
	return p.System()
}

// Matches reports whether selector names this platform.
// A selector is a Nix system double, an OS name, or "*".
func (p Platform) Matches(selector string) bool {
	return selector == SelectorAny || selector == p.OS || selector == p.System()
}

// ParsePlatform parses a Nix system double such as "aarch64-darwin".
func ParsePlatform(system string) (Platform, error) {
	arch, osName, ok := strings.Cut(system, "-")
	if !ok || arch == "" || osName == "" {
		return Platform{}, zerr.With(zerr.Wrap(ErrUnknownPlatform, "expected <arch>-<os>"), "system", system)
	}
	for goArch, na := range nixArch {
		if na == arch {
			return Platform{OS: osName, Arch: goArch}, nil
		}
	}
	return Platform{}, zerr.With(zerr.Wrap(ErrUnknownPlatform, "unsupported architecture"), "system", system)
}
