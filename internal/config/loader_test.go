package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/voicelift/internal/config"
)

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr []string
	}{
		{
			name:    "bad log level",
			yaml:    "server:\n  log_level: bananas\n",
			wantErr: []string{"server.log_level"},
		},
		{
			name:    "tls without key",
			yaml:    "server:\n  tls:\n    cert_file: cert.pem\n",
			wantErr: []string{"server.tls"},
		},
		{
			name:    "unknown mode",
			yaml:    "engine:\n  default_mode: freestyle\n",
			wantErr: []string{"engine.default_mode"},
		},
		{
			name:    "negative limits",
			yaml:    "engine:\n  recent_limit: -1\n  suggestions: -2\n",
			wantErr: []string{"engine.recent_limit", "engine.suggestions"},
		},
		{
			name:    "thresholds out of range",
			yaml:    "engine:\n  phonetic:\n    phonetic_threshold: 1.5\n    fuzzy_threshold: -0.1\n",
			wantErr: []string{"phonetic_threshold", "fuzzy_threshold"},
		},
		{
			name:    "unknown driver",
			yaml:    "storage:\n  driver: mongo\n",
			wantErr: []string{"storage.driver"},
		},
		{
			name:    "postgres without dsn",
			yaml:    "storage:\n  driver: postgres\n",
			wantErr: []string{"storage.postgres_dsn"},
		},
		{
			name:    "sample ratio",
			yaml:    "telemetry:\n  sample_ratio: 2\n",
			wantErr: []string{"telemetry.sample_ratio"},
		},
		{
			name:    "unknown field",
			yaml:    "server:\n  port: 80\n",
			wantErr: []string{"port"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error should mention %q, got: %v", want, err)
				}
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Server:    config.ServerConfig{LogLevel: "loud"},
		Engine:    config.EngineConfig{DefaultMode: "guided", RecentLimit: -5},
		Storage:   config.StorageConfig{Driver: config.StorageSQLite},
		Telemetry: config.TelemetryConfig{SampleRatio: -1},
	}
	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"log_level", "recent_limit", "sqlite_path", "sample_ratio"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestValidate_Default(t *testing.T) {
	t.Parallel()
	if err := config.Validate(config.Default()); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}
