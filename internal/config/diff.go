package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; provider and
// storage changes require a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// CompanionChanged is true if the companion persona, voice, or speed
	// factor changed.
	CompanionChanged bool

	// PassThresholdChanged is true if the assessment pass mark changed.
	PassThresholdChanged bool
	NewPassThreshold     int
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Companion != new.Companion {
		d.CompanionChanged = true
	}

	if old.Practice.PassThreshold != new.Practice.PassThreshold {
		d.PassThresholdChanged = true
		d.NewPassThreshold = new.Practice.PassThreshold
	}

	return d
}
