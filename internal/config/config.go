// Package config resolves the splitspecs configuration directory and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"splitspecs/internal/artifacts"
)

// DefaultEndpoint is the GraphQL endpoint used when settings do not name one.
const DefaultEndpoint = "https://split-specs.appspot.com/query"

// getConfigDir returns the config directory path.
// Uses SPLITSPECS_CONFIG_DIR env var if set, otherwise defaults to ~/.splitspecs.
// This is computed dynamically to support test isolation.
func getConfigDir() string {
	if dir := os.Getenv("SPLITSPECS_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".splitspecs")
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	return getConfigDir()
}

// SettingsPath returns the settings file path
func SettingsPath() string {
	return filepath.Join(getConfigDir(), "settings.yaml")
}

// TokenFilePath returns the path of the file-backed credential store
func TokenFilePath() string {
	return filepath.Join(getConfigDir(), "storage.yaml")
}

// DatabasePath returns the path of the SQLite-backed credential store
func DatabasePath() string {
	return filepath.Join(getConfigDir(), "storage.db")
}

// CacheSnapshotPath returns the path where the normalized cache is persisted
func CacheSnapshotPath() string {
	return filepath.Join(getConfigDir(), "cache.json")
}

// StylePath returns the path of an optional style configuration override
func StylePath() string {
	return filepath.Join(getConfigDir(), "style.yaml")
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(getConfigDir(), 0700)
}

// InitConfigDir initializes the config directory with default files
func InitConfigDir() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := SettingsPath()
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, artifacts.GlobalSettings, 0600); err != nil {
			return fmt.Errorf("failed to create default settings: %w", err)
		}
	}
	return nil
}

// Settings represents client settings from settings.yaml.
// Fields tagged with env can be overridden from the environment.
type Settings struct {
	Endpoint       string `yaml:"endpoint" env:"SPLITSPECS_ENDPOINT"`
	TokenStore     string `yaml:"token_store" env:"SPLITSPECS_TOKEN_STORE"` // file, sqlite, redis, memory
	RedisAddr      string `yaml:"redis_addr" env:"SPLITSPECS_REDIS_ADDR"`
	LogLevel       string `yaml:"log_level" env:"SPLITSPECS_LOG_LEVEL"` // trace, debug, info, warn, error, off
	PersistCache   bool   `yaml:"persist_cache" env:"SPLITSPECS_PERSIST_CACHE"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"SPLITSPECS_TIMEOUT_SECONDS"`
}

// ApplyDefaults fills zero-value fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	if s.TokenStore == "" {
		s.TokenStore = "file"
	}
	s.TokenStore = strings.ToLower(s.TokenStore)
	if s.RedisAddr == "" {
		s.RedisAddr = "localhost:6379"
	}
}

// Timeout returns the per-operation HTTP timeout. Zero means no timeout.
func (s *Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// loadDefaultSettings parses default settings from embedded artifact.
func loadDefaultSettings() Settings {
	var settings Settings
	if err := yaml.Unmarshal(artifacts.GlobalSettings, &settings); err != nil {
		panic("failed to parse embedded settings: " + err.Error())
	}
	return settings
}

// LoadSettings loads settings from the config dir and applies env overrides.
// Always reads from file to get latest config. Falls back to embedded defaults if file doesn't exist.
func LoadSettings() (*Settings, error) {
	settings := loadDefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	switch {
	case err == nil:
		settings = Settings{}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parse %s: %w", SettingsPath(), err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	settings.ApplyDefaults()
	return &settings, nil
}

// SaveSettings writes settings to the config dir
func SaveSettings(settings *Settings) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	header := []byte("# SplitSpecs client settings\n# See: splitspecs --help\n\n")
	return os.WriteFile(SettingsPath(), append(header, data...), 0600)
}
