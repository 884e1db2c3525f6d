// Package config provides YAML-based configuration loading for Svayam.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selection policies for choosing the active conversation on entering the user view.
const (
	PolicyLive = "live"
	PolicySeed = "seed"
)

// Built-in reply generator kinds. Others may be registered with the reply
// registry; the kind is checked when the generator is built.
const (
	ReplyCanned = "canned"
	ReplyEcho   = "echo"
)

// Config is the top-level Svayam configuration, loaded from svayam.yaml.
type Config struct {
	Owner     string          `yaml:"owner"`
	Database  DatabaseConfig  `yaml:"database"`
	Seed      SeedConfig      `yaml:"seed"`
	Selection SelectionConfig `yaml:"selection"`
	Reply     ReplyConfig     `yaml:"reply"`
	Stats     StatsConfig     `yaml:"stats"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Notify    NotifyConfig    `yaml:"notify"`
	Digest    DigestConfig    `yaml:"digest"`
}

// DatabaseConfig holds the SQLite DSN. State never outlives the process, so
// only in-memory DSNs are accepted.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SeedConfig controls the conversations and users loaded at startup.
type SeedConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"` // empty = built-in seed
}

// SelectionConfig chooses how the user view picks its active conversation.
type SelectionConfig struct {
	Policy string `yaml:"policy"` // live (default), seed
}

// ReplyConfig configures the assistant reply generator.
type ReplyConfig struct {
	Kind    string `yaml:"kind"` // canned (default), echo, or any registered kind
	Seed    int64  `yaml:"seed"`
	DelayMs int    `yaml:"delay_ms"`
}

// StatsConfig holds the cost model for the stats aggregator.
type StatsConfig struct {
	AIUnitCost float64 `yaml:"ai_unit_cost"`
}

// DashboardConfig holds the admin HTTP API settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// NotifyConfig holds webhook targets for resolution notifications.
type NotifyConfig struct {
	SlackWebhookURL     string `yaml:"slack_webhook_url"`
	DiscordWebhookID    string `yaml:"discord_webhook_id"`
	DiscordWebhookToken string `yaml:"discord_webhook_token"`
}

// DigestConfig schedules the periodic stats digest.
type DigestConfig struct {
	Cron string `yaml:"cron"` // 5-field cron expression; empty disables the digest
}

// Load reads a YAML config file from path and returns a validated Config.
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

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// SeedEnabled reports whether seed data should be loaded at startup.
func (c *Config) SeedEnabled() bool {
	return c.Seed.Enabled == nil || *c.Seed.Enabled
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Owner == "" {
		c.Owner = "John Doe"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = ":memory:"
	}
	if c.Selection.Policy == "" {
		c.Selection.Policy = PolicyLive
	}
	if c.Reply.Kind == "" {
		c.Reply.Kind = ReplyCanned
	}
	if c.Stats.AIUnitCost == 0 {
		c.Stats.AIUnitCost = 0.005
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if !strings.Contains(c.Database.DSN, ":memory:") && !strings.Contains(c.Database.DSN, "mode=memory") {
		errs = append(errs, "database.dsn must be an in-memory DSN")
	}
	if c.Selection.Policy != PolicyLive && c.Selection.Policy != PolicySeed {
		errs = append(errs, fmt.Sprintf("selection.policy %q is invalid (want live or seed)", c.Selection.Policy))
	}
	if c.Reply.DelayMs < 0 {
		errs = append(errs, "reply.delay_ms must not be negative")
	}
	if c.Stats.AIUnitCost < 0 {
		errs = append(errs, "stats.ai_unit_cost must not be negative")
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d is out of range", c.Dashboard.Port))
	}
	if (c.Notify.DiscordWebhookID == "") != (c.Notify.DiscordWebhookToken == "") {
		errs = append(errs, "notify.discord_webhook_id and notify.discord_webhook_token must be set together")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
