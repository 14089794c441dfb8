// Package config loads user settings from the XDG config file and SPROUT_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
)

// Setting keys. Nested keys map to SPROUT_<SECTION>_<KEY> environment variables.
const (
	KeyBuildTool        = "build_tool"
	KeyNixpkgs          = "nixpkgs"
	KeyOffline          = "offline"
	KeyOutputMode       = "output_mode"
	KeyRulesFile        = "rules_file"
	KeyCacheDir         = "cache_dir"
	KeyTelemetryEnabled = "telemetry.enabled"
	KeyTelemetryURL     = "telemetry.endpoint"
	KeyTelemetryTimeout = "telemetry.timeout"
)

// envPrefix is the prefix for environment overrides.
const envPrefix = "SPROUT"

// Loader reads Settings with viper.
type Loader struct {
	// Path overrides the settings file location. Empty means the XDG default.
	Path string
	// Getenv reads environment variables. Nil means os.Getenv.
	Getenv func(string) string
}

// DefaultPath returns the settings file location under $XDG_CONFIG_HOME.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, domain.AppName, domain.SettingsFileName)
}

// Load reads settings from defaults, the settings file and the environment, in
// increasing order of precedence. A missing settings file is not an error.
func (l *Loader) Load() (*domain.Settings, error) {
	v := viper.New()

	v.SetDefault(KeyBuildTool, domain.DefaultBuildTool)
	v.SetDefault(KeyNixpkgs, domain.DefaultNixpkgs)
	v.SetDefault(KeyOffline, false)
	v.SetDefault(KeyOutputMode, domain.DefaultOutputMode)
	v.SetDefault(KeyRulesFile, "")
	v.SetDefault(KeyCacheDir, filepath.Join(xdg.CacheHome, domain.AppName))
	v.SetDefault(KeyTelemetryEnabled, true)
	v.SetDefault(KeyTelemetryURL, domain.DefaultTelemetryURL)
	v.SetDefault(KeyTelemetryTimeout, domain.DefaultTelemetryTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := l.Path
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
		}
	}

	settings := &domain.Settings{
		BuildTool:  v.GetString(KeyBuildTool),
		Nixpkgs:    v.GetString(KeyNixpkgs),
		Offline:    v.GetBool(KeyOffline),
		OutputMode: v.GetString(KeyOutputMode),
		RulesFile:  v.GetString(KeyRulesFile),
		CacheDir:   v.GetString(KeyCacheDir),
		Telemetry: domain.TelemetrySettings{
			Enabled:  v.GetBool(KeyTelemetryEnabled),
			Endpoint: v.GetString(KeyTelemetryURL),
			Timeout:  v.GetDuration(KeyTelemetryTimeout),
		},
	}

	if l.doNotTrack() {
		settings.Telemetry.Enabled = false
	}
	if settings.Telemetry.Timeout <= 0 {
		settings.Telemetry.Timeout = domain.DefaultTelemetryTimeout
	}
	if settings.BuildTool == "" {
		settings.BuildTool = domain.DefaultBuildTool
	}

	return settings, nil
}

// doNotTrack honours the DO_NOT_TRACK convention and SPROUT_DISABLE_TELEMETRY.
func (l *Loader) doNotTrack() bool {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"DO_NOT_TRACK", envPrefix + "_DISABLE_TELEMETRY"} {
		val := strings.TrimSpace(getenv(key))
		if val == "" {
			continue
		}
		if off, err := strconv.ParseBool(val); err == nil && !off {
			continue
		}
		return true
	}
	return false
}
