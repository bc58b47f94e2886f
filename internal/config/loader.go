package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Defaults applied by [ApplyDefaults].
const (
	DefaultListenAddr         = ":8080"
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultRecentLimit        = 20
	DefaultSuggestions        = 3
	DefaultSessionIdleTimeout = 2 * time.Hour
	DefaultPhoneticThreshold  = 0.80
	DefaultFuzzyThreshold     = 0.90
	DefaultExercisesFile      = "exercises.yaml"
	DefaultSQLitePath         = "voicelift.db"
	DefaultServiceName        = "voicelift"
)

// Environment variables read by [ApplyEnv].
const (
	EnvLogLevel      = "VOICELIFT_LOG_LEVEL"
	EnvListenAddr    = "VOICELIFT_LISTEN_ADDR"
	EnvStorageDriver = "VOICELIFT_STORAGE_DRIVER"
	EnvSQLitePath    = "VOICELIFT_SQLITE_PATH"
	EnvPostgresDSN   = "VOICELIFT_POSTGRES_DSN"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and validates
// the result. An empty document yields the default configuration.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field with its default. It never overwrites
// a value that is already set.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Engine.DefaultMode == "" {
		cfg.Engine.DefaultMode = workout.ModeQuickStart.String()
	}
	if cfg.Engine.RecentLimit == 0 {
		cfg.Engine.RecentLimit = DefaultRecentLimit
	}
	if cfg.Engine.Suggestions == 0 {
		cfg.Engine.Suggestions = DefaultSuggestions
	}
	if cfg.Engine.SessionIdleTimeout == 0 {
		cfg.Engine.SessionIdleTimeout = DefaultSessionIdleTimeout
	}
	if cfg.Engine.Phonetic.PhoneticThreshold == 0 {
		cfg.Engine.Phonetic.PhoneticThreshold = DefaultPhoneticThreshold
	}
	if cfg.Engine.Phonetic.FuzzyThreshold == 0 {
		cfg.Engine.Phonetic.FuzzyThreshold = DefaultFuzzyThreshold
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageMemory
	}
	if cfg.Storage.Driver == StorageFile && cfg.Storage.ExercisesFile == "" {
		cfg.Storage.ExercisesFile = DefaultExercisesFile
	}
	if cfg.Storage.Driver == StorageSQLite && cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = DefaultSQLitePath
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = DefaultServiceName
	}
}

// ApplyEnv overrides cfg with the VOICELIFT_* environment variables found by
// lookup (usually [os.LookupEnv]), then re-applies defaults and validates.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Server.LogLevel = LogLevel(v)
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		cfg.Server.ListenAddr = v
	}
	if v, ok := lookup(EnvStorageDriver); ok && v != "" {
		cfg.Storage.Driver = StorageDriver(v)
	}
	if v, ok := lookup(EnvSQLitePath); ok && v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v, ok := lookup(EnvPostgresDSN); ok && v != "" {
		cfg.Storage.PostgresDSN = v
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config: environment overrides: %w", err)
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout %s must not be negative", cfg.Server.ShutdownTimeout))
	}
	if tls := cfg.Server.TLS; tls != nil && (tls.CertFile == "" || tls.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Engine
	if _, ok := workout.ParseMode(cfg.Engine.DefaultMode); !ok {
		errs = append(errs, fmt.Errorf("engine.default_mode %q is invalid; valid values: quick_start, guided", cfg.Engine.DefaultMode))
	}
	if cfg.Engine.RecentLimit < 0 {
		errs = append(errs, fmt.Errorf("engine.recent_limit %d must not be negative", cfg.Engine.RecentLimit))
	}
	if cfg.Engine.Suggestions < 0 {
		errs = append(errs, fmt.Errorf("engine.suggestions %d must not be negative", cfg.Engine.Suggestions))
	}
	if cfg.Engine.SessionIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("engine.session_idle_timeout %s must not be negative", cfg.Engine.SessionIdleTimeout))
	}
	ph := cfg.Engine.Phonetic
	if ph.PhoneticThreshold < 0 || ph.PhoneticThreshold > 1 {
		errs = append(errs, fmt.Errorf("engine.phonetic.phonetic_threshold %.2f is out of range [0, 1]", ph.PhoneticThreshold))
	}
	if ph.FuzzyThreshold < 0 || ph.FuzzyThreshold > 1 {
		errs = append(errs, fmt.Errorf("engine.phonetic.fuzzy_threshold %.2f is out of range [0, 1]", ph.FuzzyThreshold))
	}

	// Storage
	switch d := cfg.Storage.Driver; {
	case d == "":
	case !d.IsValid():
		errs = append(errs, fmt.Errorf("storage.driver %q is invalid; valid values: memory, file, sqlite, postgres", d))
	case d == StorageFile && cfg.Storage.ExercisesFile == "":
		errs = append(errs, errors.New("storage.exercises_file is required when driver is file"))
	case d == StorageSQLite && cfg.Storage.SQLitePath == "":
		errs = append(errs, errors.New("storage.sqlite_path is required when driver is sqlite"))
	case d == StoragePostgres && cfg.Storage.PostgresDSN == "":
		errs = append(errs, errors.New("storage.postgres_dsn is required when driver is postgres"))
	}
	if cfg.Storage.Driver == StorageMemory && (cfg.Storage.PostgresDSN != "" || cfg.Storage.SQLitePath != "") {
		slog.Warn("storage.driver is memory; configured database settings are ignored")
	}

	// Telemetry
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio %.2f is out of range [0, 1]", cfg.Telemetry.SampleRatio))
	}

	return errors.Join(errs...)
}
