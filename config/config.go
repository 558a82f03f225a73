package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the complete banca configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
}

// AccountConfig describes the tracked balance and how it is displayed.
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	Currency       string  `json:"currency" yaml:"currency"` // ISO 4217
	Locale         string  `json:"locale" yaml:"locale"`     // BCP 47
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

// JournalConfig selects where operations are persisted.
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "json" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// RiskConfig holds the bankroll guard limits. Percentages are on a 0-100
// scale; zero disables a rule.
type RiskConfig struct {
	MaxStakePct     float64 `json:"max_stake_pct" yaml:"max_stake_pct"`
	MaxDailyLossPct float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	MaxLossStreak   int     `json:"max_loss_streak" yaml:"max_loss_streak"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if _, err := currency.ParseISO(c.Account.Currency); err != nil {
		return fmt.Errorf("unknown currency: %s", c.Account.Currency)
	}
	if c.Account.Locale == "" {
		return fmt.Errorf("account.locale is required")
	}
	if _, err := language.Parse(c.Account.Locale); err != nil {
		return fmt.Errorf("unknown locale: %s", c.Account.Locale)
	}
	if c.Journal.Type != "json" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'json' or 'sqlite'")
	}
	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Risk.MaxStakePct < 0 || c.Risk.MaxStakePct > 100 {
		return fmt.Errorf("risk.max_stake_pct must be between 0 and 100")
	}
	if c.Risk.MaxDailyLossPct < 0 || c.Risk.MaxDailyLossPct > 100 {
		return fmt.Errorf("risk.max_daily_loss_pct must be between 0 and 100")
	}
	if c.Risk.MaxLossStreak < 0 {
		return fmt.Errorf("risk.max_loss_streak must not be negative")
	}
	return nil
}

// ApplyEnv overrides fields from BANCA_* environment variables. Values
// that fail to parse are ignored.
func (c *Config) ApplyEnv() {
	c.Account.Currency = getEnv("BANCA_CURRENCY", c.Account.Currency)
	c.Account.Locale = getEnv("BANCA_LOCALE", c.Account.Locale)
	c.Account.InitialBalance = getEnvFloat("BANCA_INITIAL_BALANCE", c.Account.InitialBalance)
	c.Journal.Type = getEnv("BANCA_JOURNAL_TYPE", c.Journal.Type)
	c.Journal.Path = getEnv("BANCA_JOURNAL_PATH", c.Journal.Path)
	c.Log.Level = getEnv("BANCA_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("BANCA_LOG_FORMAT", c.Log.Format)
	c.Server.Addr = getEnv("BANCA_ADDR", c.Server.Addr)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "banca",
			Currency:       "BRL",
			Locale:         "pt-BR",
			InitialBalance: 5000,
		},
		Journal: JournalConfig{
			Type: "json",
			Path: "./banca.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Risk: RiskConfig{
			MaxStakePct:     5,
			MaxDailyLossPct: 10,
			MaxLossStreak:   3,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
