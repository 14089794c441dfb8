package domain

const (
	// AppName is used for XDG directories and environment variable prefixes.
	AppName = "sprout"

	// SettingsFileName is the name of the user settings file.
	SettingsFileName = "config.yaml"

	// EnvDirName is the name of the environment cache directory.
	EnvDirName = "environments"

	// DistinctIDFileName is the name of the telemetry identifier file.
	DistinctIDFileName = "distinct_id"

	// SpecFilePattern is the temp file pattern for staged environment expressions.
	SpecFilePattern = "sprout-env-*.nix"

	// ActiveEnvVar is set inside hosted processes to the project root.
	ActiveEnvVar = "SPROUT_ACTIVE"

	// EnvIDEnvVar is set inside hosted processes to the environment ID.
	EnvIDEnvVar = "SPROUT_ENV_ID"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
