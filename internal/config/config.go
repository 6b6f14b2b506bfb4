package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "VFD"

type Config struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`

	DB   DBConfig   `mapstructure:"db"`
	BMS  BMSConfig  `mapstructure:"bms"`
	Poll PollConfig `mapstructure:"poll"`
	Auth AuthConfig `mapstructure:"auth"`
	WS   WSConfig   `mapstructure:"ws"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// BMSConfig addresses the vendor. Username and Password are the fallback
// credentials used when a login request carries none.
type BMSConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	DWRHandshake  bool          `mapstructure:"dwr_handshake"`
	DeviceProfile string        `mapstructure:"device_profile"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type WSConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

var defaults = map[string]any{
	"port":               "3001",
	"environment":        "development",
	"version":            "1.0.0",
	"log_level":          "info",
	"db.path":            "bms_proxy.db",
	"bms.base_url":       "https://bmsdev.chakranetwork.com:8080/bms",
	"bms.username":       "",
	"bms.password":       "",
	"bms.timeout":        30 * time.Second,
	"bms.user_agent":     "",
	"bms.dwr_handshake":  true,
	"bms.device_profile": "",
	"poll.interval":      5 * time.Minute,
	"auth.enabled":       false,
	"auth.signing_key":   "",
	"auth.token_ttl":     time.Hour,
	"ws.interval":        2 * time.Second,
	"ws.allowed_origins": []string{},
}

// Load reads an optional .env file, then configs/config.yml (or the file
// named by path), then VFD_* environment overrides.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the proxy cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BMS.BaseURL) == "" {
		return errors.New("bms.base_url is required")
	}
	if c.BMS.Timeout <= 0 {
		return fmt.Errorf("bms.timeout must be positive, got %s", c.BMS.Timeout)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must not be negative, got %s", c.Poll.Interval)
	}
	if c.Auth.Enabled && len(c.Auth.SigningKey) < 16 {
		return errors.New("auth.signing_key must be at least 16 characters when auth is enabled")
	}
	return nil
}
