package usage

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/sprout/internal/core/domain"
)

const (
	osReleasePath   = "/etc/os-release"
	nixVersionLimit = 2 * time.Second
)

// Probe gathers facts about the host for a usage event.
type Probe struct {
	IdentityPath  string
	OSReleasePath string
	NixTool       string
}

// DefaultProbe returns a probe reading the standard locations.
func DefaultProbe(nixTool string) Probe {
	return Probe{
		IdentityPath:  DefaultIdentityPath(),
		OSReleasePath: osReleasePath,
		NixTool:       nixTool,
	}
}

// Fill completes event with host facts. Every probe failure leaves its field
// empty and is returned for debug logging only.
func (p Probe) Fill(ctx context.Context, event domain.UsageEvent) (domain.UsageEvent, []error) {
	var errs []error

	event.SystemOS = runtime.GOOS
	event.SystemArch = runtime.GOARCH

	if p.IdentityPath != "" {
		id, err := DistinctID(p.IdentityPath)
		if err != nil {
			errs = append(errs, err)
		} else {
			event.DistinctID = id.String()
		}
	}

	if p.OSReleasePath != "" {
		//nolint:gosec // Fixed system path
		if data, err := os.ReadFile(p.OSReleasePath); err == nil {
			release := ParseOSRelease(data)
			event.OSReleaseName = release["NAME"]
			event.OSReleaseVersion = release["VERSION_ID"]
		}
	}

	if p.NixTool != "" {
		version, err := nixVersion(ctx, p.NixTool)
		if err != nil {
			errs = append(errs, err)
		}
		event.NixVersion = version
	}

	return event, errs
}

// ParseOSRelease parses the KEY=value lines of an os-release file.
func ParseOSRelease(data []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		} else {
			value = strings.Trim(value, `"'`)
		}
		fields[key] = value
	}
	return fields
}

func nixVersion(ctx context.Context, tool string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, nixVersionLimit)
	defer cancel()

	//nolint:gosec // Tool comes from user settings
	out, err := exec.CommandContext(ctx, tool, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
