package config

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

type Config struct {
	App struct {
		Host     string `yaml:"host" json:"host"`
		Port     int    `yaml:"port" json:"port"`
		DataDir  string `yaml:"data_dir" json:"data_dir"`
		LogLevel string `yaml:"log_level" json:"log_level"`
	} `yaml:"app" json:"app"`

	Source struct {
		URL             string  `yaml:"url" json:"url"`
		TimeoutSeconds  int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`
		RefreshSeconds  int     `yaml:"refresh_seconds" json:"refresh_seconds"`
		MaxRPS          float64 `yaml:"max_rps" json:"max_rps"`
		Burst           int     `yaml:"burst" json:"burst"`
		KeyringAccount  string  `yaml:"keyring_account" json:"keyring_account"`
	} `yaml:"source" json:"source"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default.yml: %v", err))
	}
	return cfg
}

// Load reads path on top of the built-in defaults, so a partial file only
// overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.App.Host, strconv.Itoa(c.App.Port))
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Source.CacheTTLSeconds) * time.Second
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Source.RefreshSeconds) * time.Second
}
