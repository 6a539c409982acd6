package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the backend configuration
type Config struct {
	// Command bridge
	BridgeAddr    string `mapstructure:"bridge_addr"`
	HTTPAddr      string `mapstructure:"http_addr"`
	MaxFrameBytes int    `mapstructure:"max_frame_bytes"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BridgeAddr:    "127.0.0.1:12345",
		HTTPAddr:      "127.0.0.1:8848",
		MaxFrameBytes: 64 << 20,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads configuration from file and environment. An explicit path
// must exist; otherwise jietu.yaml is searched for and may be absent.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("bridge_addr", cfg.BridgeAddr)
	v.SetDefault("http_addr", cfg.HTTPAddr)
	v.SetDefault("max_frame_bytes", cfg.MaxFrameBytes)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jietu")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	// JIETU_BRIDGE_ADDR, JIETU_LOG_LEVEL, ...
	v.SetEnvPrefix("JIETU")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BridgeAddr) == "" {
		return errors.New("bridge_addr must not be empty")
	}
	if c.MaxFrameBytes <= 0 {
		return fmt.Errorf("max_frame_bytes must be positive, got %d", c.MaxFrameBytes)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// configDir returns the per-user config directory for jietu
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jietu")
}
