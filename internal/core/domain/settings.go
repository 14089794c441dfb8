package domain

import "time"

// Default settings.
const (
	DefaultBuildTool        = "nix"
	DefaultNixpkgs          = "github:NixOS/nixpkgs/nixpkgs-unstable"
	DefaultOutputMode       = "auto"
	DefaultTelemetryTimeout = 250 * time.Millisecond
	DefaultTelemetryURL     = "https://telemetry.trai.ch/sprout/v1/usage"
)

// Settings is the user configuration for an invocation.
type Settings struct {
	BuildTool  string
	Nixpkgs    string
	Offline    bool
	OutputMode string
	RulesFile  string
	CacheDir   string
	Telemetry  TelemetrySettings
}

// TelemetrySettings controls the usage reporter.
type TelemetrySettings struct {
	Enabled  bool
	Endpoint string
	Timeout  time.Duration
}

// UsageEvent is the payload sent by the usage reporter.
type UsageEvent struct {
	DistinctID        string   `json:"distinct_id,omitempty"`
	SystemOS          string   `json:"system_os"`
	SystemArch        string   `json:"system_arch"`
	OSReleaseName     string   `json:"system_os_release_name,omitempty"`
	OSReleaseVersion  string   `json:"system_os_release_version_id,omitempty"`
	Version           string   `json:"version"`
	NixVersion        string   `json:"nix_version,omitempty"`
	IsTTY             bool     `json:"is_tty"`
	InCI              bool     `json:"in_ci"`
	Subcommand        string   `json:"subcommand"`
	DetectedEcosystem []string `json:"detected_ecosystems"`
}
