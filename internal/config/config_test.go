package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"compresspdf/internal/cloudconvert"
	"compresspdf/internal/domain/compression"
)

func TestNew(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvSyncAPIURL, "http://localhost:9000/v2")

	cfg := New()

	if cfg.AppDataDir != dataDir {
		t.Errorf("Expected data dir %s, got %s", dataDir, cfg.AppDataDir)
	}
	if cfg.DatabasePath != filepath.Join(dataDir, "database.sqlite3") {
		t.Errorf("Unexpected database path %s", cfg.DatabasePath)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.CloudConvertBaseURL != cloudconvert.DefaultBaseURL {
		t.Errorf("Expected default base url, got %s", cfg.CloudConvertBaseURL)
	}
	if cfg.CloudConvertSyncBaseURL != "http://localhost:9000/v2" {
		t.Errorf("Expected sync url override, got %s", cfg.CloudConvertSyncBaseURL)
	}
	if cfg.Logger == nil {
		t.Fatal("Expected logger")
	}
}

func TestCredentials(t *testing.T) {
	persisted := compression.Credentials{RemoteAPIKey: " saved-key ", LocalToolPath: "/usr/bin/gs"}

	tests := []struct {
		name    string
		envKey  string
		envPath string
		want    compression.Credentials
	}{
		{
			name: "persisted only",
			want: compression.Credentials{RemoteAPIKey: "saved-key", LocalToolPath: "/usr/bin/gs"},
		},
		{
			name:   "environment key overrides",
			envKey: "env-key",
			want:   compression.Credentials{RemoteAPIKey: "env-key", LocalToolPath: "/usr/bin/gs"},
		},
		{
			name:    "environment path overrides",
			envPath: "/opt/homebrew/bin/gs",
			want:    compression.Credentials{RemoteAPIKey: "saved-key", LocalToolPath: "/opt/homebrew/bin/gs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{envAPIKey: tt.envKey, envGhostscriptPath: tt.envPath}
			if got := cfg.Credentials(persisted); got != tt.want {
				t.Errorf("Credentials() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
