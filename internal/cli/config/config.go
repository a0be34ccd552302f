package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hubkit/hubctl/internal/logging"
)

// Config represents the hubctl configuration
type Config struct {
	HubRoot string        `mapstructure:"hub_root"`
	DataDir string        `mapstructure:"data_dir"`
	Pipx    PipxConfig    `mapstructure:"pipx"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
}

// PipxConfig controls plugin installation
type PipxConfig struct {
	Binary string `mapstructure:"binary"`
	// Python pins the interpreter. Empty resolves python on PATH.
	Python string `mapstructure:"python"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// CacheConfig configures the introspection cache. An empty RedisURL
// disables it.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// HistoryConfig locates the run ledger. An empty Path disables it.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// EnvPrefix prefixes environment overrides, e.g. HUBCTL_CACHE_REDIS_URL.
const EnvPrefix = "HUBCTL"

// Load reads the configuration from path, or from hubctl.yml/hubctl.yaml in
// the current directory when path is empty. A missing default file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("hub_root", ".")
	v.SetDefault("data_dir", "_data/meltano")
	v.SetDefault("pipx.binary", "pipx")
	v.SetDefault("pipx.python", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.prefix", "hubctl:about:")
	v.SetDefault("history.path", ".hubctl/history.db")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hubctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DataPath returns the directory holding plugin definition records.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(c.HubRoot, c.DataDir)
}

// InHub checks whether the configured hub root contains a data directory
func (c *Config) InHub() bool {
	info, err := os.Stat(c.DataPath())
	return err == nil && info.IsDir()
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !logging.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, fatal, got: %s", cfg.Log.Level)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got: %s", cfg.Cache.TTL)
	}
	return nil
}
