package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Batch failure policies.
const (
	BatchPolicyAbort    = "abort"
	BatchPolicyContinue = "continue"
)

// StorageConfig locates the notification database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Console selects human-readable output instead of JSON lines.
	Console bool `mapstructure:"console" yaml:"console"`
}

// EngineConfig tunes the notification constructors.
type EngineConfig struct {
	// PreviewLength is the number of characters of a chat message kept
	// in a message notification body.
	PreviewLength int `mapstructure:"preview_length" yaml:"preview_length"`

	// CriticalRatio is the fraction of the low-stock threshold at or
	// below which an inventory alert becomes critical.
	CriticalRatio float64 `mapstructure:"critical_ratio" yaml:"critical_ratio"`

	// BatchPolicy is BatchPolicyAbort or BatchPolicyContinue.
	BatchPolicy string `mapstructure:"batch_policy" yaml:"batch_policy"`
}

// RedisConfig controls real-time fan-out of stored notifications.
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr          string `mapstructure:"addr" yaml:"addr"`
	DB            int    `mapstructure:"db" yaml:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix" yaml:"channel_prefix"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/sitehub/notify.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "notify.yaml")
	}
	return filepath.Join(home, ".config", "sitehub", "notify.yaml")
}

// defaultStoragePath returns ~/.local/share/sitehub/notifications.db.
func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "notifications.db")
	}
	return filepath.Join(home, ".local", "share", "sitehub", "notifications.db")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: defaultStoragePath()},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Engine: EngineConfig{
			PreviewLength: 80,
			CriticalRatio: 0.3,
			BatchPolicy:   BatchPolicyAbort,
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			ChannelPrefix: "notifications",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.console", defaults.Log.Console)
	v.SetDefault("engine.preview_length", defaults.Engine.PreviewLength)
	v.SetDefault("engine.critical_ratio", defaults.Engine.CriticalRatio)
	v.SetDefault("engine.batch_policy", defaults.Engine.BatchPolicy)
	v.SetDefault("redis.addr", defaults.Redis.Addr)
	v.SetDefault("redis.channel_prefix", defaults.Redis.ChannelPrefix)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values viper cannot constrain on its own.
func (c *AppConfig) Validate() error {
	if c.Engine.PreviewLength <= 0 {
		return fmt.Errorf("engine.preview_length must be positive, got %d", c.Engine.PreviewLength)
	}
	if c.Engine.CriticalRatio <= 0 || c.Engine.CriticalRatio > 1 {
		return fmt.Errorf("engine.critical_ratio must be in (0, 1], got %v", c.Engine.CriticalRatio)
	}
	switch c.Engine.BatchPolicy {
	case BatchPolicyAbort, BatchPolicyContinue:
	default:
		return fmt.Errorf("engine.batch_policy must be %q or %q, got %q",
			BatchPolicyAbort, BatchPolicyContinue, c.Engine.BatchPolicy)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("engine", cfg.Engine)
	v.Set("redis", cfg.Redis)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
