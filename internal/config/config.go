package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"compresspdf/internal/cloudconvert"
	"compresspdf/internal/domain/compression"

	"github.com/joho/godotenv"
)

// Environment variables read at startup.
const (
	EnvAPIKey          = "CLOUDCONVERT_API_KEY"
	EnvGhostscriptPath = "GHOSTSCRIPT_PATH"
	EnvLogLevel        = "LOG_LEVEL"
	EnvDataDir         = "COMPRESSPDF_DATA_DIR"
	EnvAPIURL          = "CLOUDCONVERT_API_URL"
	EnvSyncAPIURL      = "CLOUDCONVERT_SYNC_API_URL"
)

// Config holds application configuration
type Config struct {
	AppDataDir   string
	DatabasePath string
	LogLevel     slog.Level
	Logger       *slog.Logger

	CloudConvertBaseURL     string
	CloudConvertSyncBaseURL string

	// Values from the environment take precedence over persisted preferences.
	envAPIKey          string
	envGhostscriptPath string
}

// New loads .env (if present) and the environment, sets up the data
// directory and returns the configuration.
func New() *Config {
	envErr := godotenv.Load()

	cfg := &Config{
		LogLevel:                parseLogLevel(os.Getenv(EnvLogLevel)),
		CloudConvertBaseURL:     getEnvOrDefault(EnvAPIURL, cloudconvert.DefaultBaseURL),
		CloudConvertSyncBaseURL: getEnvOrDefault(EnvSyncAPIURL, cloudconvert.DefaultSyncBaseURL),
		envAPIKey:               strings.TrimSpace(os.Getenv(EnvAPIKey)),
		envGhostscriptPath:      strings.TrimSpace(os.Getenv(EnvGhostscriptPath)),
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if envErr != nil && !os.IsNotExist(envErr) {
		cfg.Logger.Warn("Could not load .env file", "error", envErr)
	}

	cfg.setupDirectories()
	return cfg
}

func (c *Config) setupDirectories() {
	c.AppDataDir = getEnvOrDefault(EnvDataDir, getAppDataDir())
	if err := os.MkdirAll(c.AppDataDir, 0o755); err != nil {
		c.Logger.Error("Failed to create app data directory", "path", c.AppDataDir, "error", err)
	}

	c.DatabasePath = filepath.Join(c.AppDataDir, "database.sqlite3")
}

// Credentials merges persisted credentials with environment overrides.
func (c *Config) Credentials(persisted compression.Credentials) compression.Credentials {
	creds := compression.Credentials{
		RemoteAPIKey:  strings.TrimSpace(persisted.RemoteAPIKey),
		LocalToolPath: strings.TrimSpace(persisted.LocalToolPath),
	}
	if c.envAPIKey != "" {
		creds.RemoteAPIKey = c.envAPIKey
	}
	if c.envGhostscriptPath != "" {
		creds.LocalToolPath = c.envGhostscriptPath
	}
	return creds
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getAppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "CompressPDF")
}
