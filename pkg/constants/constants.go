// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

const (
	DefaultPerms755        = 0o755
	WriteReadReadPerms     = 0o644
	WriteReadUserOnlyPerms = 0o600

	LogDir      = "logs"
	LogFileName = "fitcron.log"

	DefaultConfigFileName = "fitcron"
	DefaultConfigFileType = "json"

	// SessionFileName is the dotfile the collector writes its OAuth session
	// to, always directly under the working directory.
	SessionFileName = ".garmin_session.json"

	// PruneConfigPath is the uploader's config file, relative to the working
	// directory. The pruner reads it so both tools agree on what to sweep.
	PruneConfigPath = "config/influxdb_config.json"

	// CollectorDefaultPath is where the collector build lands, relative to
	// the working directory.
	CollectorDefaultPath = "target/debug/garmin"

	RunFileName = ".fitcron.run"

	// DefaultUTCOffsetHours anchors midnight for the prune cutoff. The
	// pipeline runs on US Eastern standard time year round, not the host
	// timezone.
	DefaultUTCOffsetHours = -5

	DateFormat = "2006-01-02"

	ConfigWorkdirKey       = "workdir"
	ConfigCollectorPathKey = "collector-path"
	ConfigLogLevelKey      = "log-level"

	WorkdirEnvVar       = "FITCRON_WORKDIR"
	CollectorPathEnvVar = "FITCRON_COLLECTOR_PATH"
)
