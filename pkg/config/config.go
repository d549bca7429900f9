// Package config loads the server configuration from a YAML file with
// environment variable overrides for deployment secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/blocker"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/monitor"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/recognizer"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/auth"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EngineConfig holds detection tuning knobs.
type EngineConfig struct {
	ScoreProximity float64 `yaml:"score_proximity"`
}

// CryptoConfig holds the key-derivation inputs for value encryption.
type CryptoConfig struct {
	Passphrase string `yaml:"passphrase"`
	Salt       string `yaml:"salt"`
}

// TracingConfig holds the OTLP exporter settings.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

// Config is the full server configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Engine     EngineConfig      `yaml:"engine"`
	Auth       auth.Config       `yaml:"auth"`
	Crypto     CryptoConfig      `yaml:"crypto"`
	Recognizer recognizer.Config `yaml:"recognizer"`
	Blocker    blocker.Config    `yaml:"blocker"`
	Monitor    monitor.Config    `yaml:"monitor"`
	Tracing    TracingConfig     `yaml:"tracing"`
	LogLevel   string            `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Auth:   auth.DefaultConfig(),
		Recognizer: recognizer.Config{
			Timeout: 5 * time.Second,
		},
		Blocker: blocker.Config{
			BaseURL: "http://localhost:9090",
			Timeout: 10 * time.Second,
		},
		Monitor: monitor.Config{
			Schedule: "@every 5m",
			Language: "en",
		},
		Tracing:  TracingConfig{Service: "data-protection"},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("ENCRYPTION_PASSPHRASE"); v != "" {
		c.Crypto.Passphrase = v
	}
	if v := os.Getenv("ENCRYPTION_SALT"); v != "" {
		c.Crypto.Salt = v
	}
	if v := os.Getenv("RECOGNIZER_URL"); v != "" {
		c.Recognizer.BaseURL = v
	}
	if v := os.Getenv("BLOCKER_URL"); v != "" {
		c.Blocker.BaseURL = v
	}
	if v := os.Getenv("BLOCKER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Blocker.Enabled = b
		}
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
		c.Tracing.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the settings a server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if c.Auth.Secret == "" {
		return errors.New("config: auth secret is required (set auth.secret or JWT_SECRET)")
	}
	if c.Crypto.Passphrase == "" {
		return errors.New("config: encryption passphrase is required (set crypto.passphrase or ENCRYPTION_PASSPHRASE)")
	}
	if c.Crypto.Salt == "" {
		return errors.New("config: encryption salt is required (set crypto.salt or ENCRYPTION_SALT)")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
