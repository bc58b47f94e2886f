package config

// ConfigDiff describes what changed between two configs.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// The remaining sections are wired at startup; changing them needs a
	// restart.
	ServerChanged    bool
	EngineChanged    bool
	StorageChanged   bool
	TelemetryChanged bool
}

// RequiresRestart reports whether any change cannot be applied in place.
func (d ConfigDiff) RequiresRestart() bool {
	return d.ServerChanged || d.EngineChanged || d.StorageChanged || d.TelemetryChanged
}

// Changed reports whether anything differs at all.
func (d ConfigDiff) Changed() bool {
	return d.LogLevelChanged || d.RequiresRestart()
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Server.ListenAddr != new.Server.ListenAddr ||
		old.Server.ShutdownTimeout != new.Server.ShutdownTimeout ||
		!sameTLS(old.Server.TLS, new.Server.TLS) {
		d.ServerChanged = true
	}

	oe, ne := old.Engine, new.Engine
	if oe.DefaultMode != ne.DefaultMode ||
		oe.RecentLimit != ne.RecentLimit ||
		oe.Suggestions != ne.Suggestions ||
		oe.SessionIdleTimeout != ne.SessionIdleTimeout ||
		oe.Phonetic.IsEnabled() != ne.Phonetic.IsEnabled() ||
		oe.Phonetic.PhoneticThreshold != ne.Phonetic.PhoneticThreshold ||
		oe.Phonetic.FuzzyThreshold != ne.Phonetic.FuzzyThreshold {
		d.EngineChanged = true
	}

	if old.Storage != new.Storage {
		d.StorageChanged = true
	}

	ot, nt := old.Telemetry, new.Telemetry
	if ot.ServiceName != nt.ServiceName ||
		ot.MetricsEnabled() != nt.MetricsEnabled() ||
		ot.SampleRatio != nt.SampleRatio {
		d.TelemetryChanged = true
	}

	return d
}

func sameTLS(a, b *TLSConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
