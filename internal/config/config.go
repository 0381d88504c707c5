package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PLEXSKILL_PLEX_TOKEN
const EnvPrefix = "PLEXSKILL"

// Config holds all application configuration
type Config struct {
	Plex     PlexConfig     `mapstructure:"plex"`
	Skill    SkillConfig    `mapstructure:"skill"`
	Settings SettingsConfig `mapstructure:"settings"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PlexConfig holds account and server configuration
type PlexConfig struct {
	Token      string `mapstructure:"token"`       // overrides the token in the settings store
	AccountURL string `mapstructure:"account_url"` // plex.tv unless testing
	ServerURL  string `mapstructure:"server_url"`  // connect to one server directly, skipping discovery
	Product    string `mapstructure:"product"`     // X-Plex-Product
}

// SkillConfig holds how the skill presents itself to the host
type SkillConfig struct {
	ID       string `mapstructure:"id"`
	Icon     string `mapstructure:"icon"`
	Language string `mapstructure:"language"`
	Listen   string `mapstructure:"listen"` // host bridge address
}

// SettingsConfig holds the settings store location
type SettingsConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			AccountURL: "https://plex.tv",
			Product:    "PlexSkill",
		},
		Skill: SkillConfig{
			ID:       "skill-plex",
			Language: "en-us",
			Listen:   "127.0.0.1:8765",
		},
		Settings: SettingsConfig{
			Path: filepath.Join(defaultDataPath(), "settings.db"),
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "plexskill.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexskill")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "plexskill")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexskill")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "plexskill")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return Load(DefaultConfigPath(), ".")
}

// Load reads config.yaml from the first of dirs that has one, then applies
// .env and PLEXSKILL_* environment overrides
func Load(dirs ...string) (*Config, error) {
	// .env never overrides variables already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := newViper(DefaultConfig())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// newViper registers every key with its default so environment overrides
// apply even when no config file sets them
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	for key, value := range flatten(defaults) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"plex.token":           cfg.Plex.Token,
		"plex.account_url":     cfg.Plex.AccountURL,
		"plex.server_url":      cfg.Plex.ServerURL,
		"plex.product":         cfg.Plex.Product,
		"skill.id":             cfg.Skill.ID,
		"skill.icon":           cfg.Skill.Icon,
		"skill.language":       cfg.Skill.Language,
		"skill.listen":         cfg.Skill.Listen,
		"settings.path":        cfg.Settings.Path,
		"logging.file":         cfg.Logging.File,
		"logging.level":        cfg.Logging.Level,
		"logging.max_size_mb":  cfg.Logging.MaxSizeMB,
		"logging.max_backups":  cfg.Logging.MaxBackups,
		"logging.max_age_days": cfg.Logging.MaxAgeDays,
		"logging.compress":     cfg.Logging.Compress,
	}
}

// SaveConfig writes cfg to config.yaml in dir
func SaveConfig(cfg *Config, dir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	v := viper.New()
	for key, value := range flatten(cfg) {
		v.Set(key, value)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UsesDiscovery returns true when servers are found through the account
// rather than a fixed server URL
func (c *Config) UsesDiscovery() bool {
	return c.Plex.ServerURL == ""
}
