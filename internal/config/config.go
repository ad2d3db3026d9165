// Package config provides YAML-based configuration loading for
// Frontdesk.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Frontdesk configuration, loaded from
// frontdesk.yaml.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Policy     PolicyConfig     `yaml:"policy"`
	Session    SessionConfig    `yaml:"session"`
	Slack      SlackConfig      `yaml:"slack"`
	Discord    DiscordConfig    `yaml:"discord"`
}

// ServerConfig holds HTTP transport settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" or "mysql"
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ClassifierConfig selects the intent classifier backend.
type ClassifierConfig struct {
	Backend       string  `yaml:"backend"`    // "local" or "openai"
	ModelPath     string  `yaml:"model_path"` // local backend; empty uses the bundled model
	ResponsesPath string  `yaml:"responses_path"`
	Threshold     float64 `yaml:"threshold"`
	OpenAIModel   string  `yaml:"openai_model"`
	// OpenAIKey is usually supplied via OPENAI_API_KEY instead.
	OpenAIKey string `yaml:"openai_key"`
}

// PolicyConfig holds the return-window policy.
type PolicyConfig struct {
	WindowDays int `yaml:"window_days"`
}

// SessionConfig controls idle-session sweeping.
type SessionConfig struct {
	TTLMinutes int    `yaml:"ttl_minutes"`
	SweepCron  string `yaml:"sweep_cron"` // 5-field cron expression
}

// SlackConfig holds Slack bridge credentials.
type SlackConfig struct {
	AppToken string `yaml:"app_token"` // xapp-...
	BotToken string `yaml:"bot_token"` // xoxb-...
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord bridge credentials.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated
// Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists:
// sqlite persistence and the bundled local classifier.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "frontdesk.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "frontdesk"
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Classifier.Backend == "" {
		c.Classifier.Backend = "local"
	}
	if c.Classifier.Threshold == 0 {
		c.Classifier.Threshold = 0.4
	}
	if c.Policy.WindowDays == 0 {
		c.Policy.WindowDays = 7
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 30
	}
	if c.Session.SweepCron == "" {
		c.Session.SweepCron = "*/10 * * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not sqlite or mysql", c.Database.Driver))
	}
	switch c.Classifier.Backend {
	case "local", "openai":
	default:
		errs = append(errs, fmt.Sprintf("classifier.backend %q is not local or openai", c.Classifier.Backend))
	}
	if c.Classifier.Threshold < 0 || c.Classifier.Threshold > 1 {
		errs = append(errs, "classifier.threshold must be in [0,1]")
	}
	if c.Policy.WindowDays < 0 {
		errs = append(errs, "policy.window_days must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
