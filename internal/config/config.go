package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Enhancer EnhancerConfig `yaml:"enhancer"`
	Auth     AuthConfig     `yaml:"auth"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	MetricsPort    int      `yaml:"metrics_port"`
	AdminToken     string   `yaml:"admin_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      int      `yaml:"rate_limit_per_minute"`
}

// StorageConfig selects the session backend: "sqlite" (local) or "postgres" (remote).
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type EnhancerConfig struct {
	Provider  string `yaml:"provider"` // groq, openai, gemini, anthropic
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type AuthConfig struct {
	ShareSecret   string `yaml:"share_secret"`
	ShareTTLHours int    `yaml:"share_ttl_hours"`
}

type ScoringConfig struct {
	Weights          ScoringWeights `yaml:"weights"`
	NormalizeWeights bool           `yaml:"normalize_weights"`
	HourlyRate       *float64       `yaml:"hourly_rate"`
}

type ScoringWeights struct {
	Frequency           float64 `yaml:"frequency"`
	Repetitiveness      float64 `yaml:"repetitiveness"`
	DataDependency      float64 `yaml:"data_dependency"`
	DecisionVariability float64 `yaml:"decision_variability"`
	Complexity          float64 `yaml:"complexity"`
}

type SessionsConfig struct {
	TTLDays int `yaml:"ttl_days"`
	// SweepIntervalSecs is how often the janitor resets stale sessions. 0 disables it.
	SweepIntervalSecs int `yaml:"sweep_interval_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) EnhancerTimeout() time.Duration {
	return time.Duration(c.Enhancer.TimeoutMs) * time.Millisecond
}

func (c *Config) ShareTTL() time.Duration {
	return time.Duration(c.Auth.ShareTTLHours) * time.Hour
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLDays) * 24 * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Sessions.SweepIntervalSecs) * time.Second
}

// ScoringOptions converts the configured weights into scorer options.
func (c *Config) ScoringOptions() scoring.Options {
	w := c.Scoring.Weights
	return scoring.Options{
		Weights: scoring.WeightSet{
			Frequency:           w.Frequency,
			Repetitiveness:      w.Repetitiveness,
			DataDependency:      w.DataDependency,
			DecisionVariability: w.DecisionVariability,
			Complexity:          w.Complexity,
		},
		NormalizeWeights: c.Scoring.NormalizeWeights,
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           8700,
			MetricsPort:    8701,
			AllowedOrigins: []string{"*"},
			RateLimit:      120,
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "./data/readiness.db",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Enhancer: EnhancerConfig{
			Provider:  "groq",
			TimeoutMs: 30000,
		},
		Auth: AuthConfig{
			ShareTTLHours: 7 * 24,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Frequency:           0.25,
				Repetitiveness:      0.25,
				DataDependency:      0.20,
				DecisionVariability: 0.20,
				Complexity:          0.10,
			},
			NormalizeWeights: false,
		},
		Sessions: SessionsConfig{
			TTLDays:           7,
			SweepIntervalSecs: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("READINESS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("READINESS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("READINESS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("READINESS_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("READINESS_DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("READINESS_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("READINESS_NATS_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("READINESS_ENHANCER_PROVIDER"); v != "" {
		cfg.Enhancer.Provider = v
	}
	if v := os.Getenv("READINESS_ENHANCER_API_KEY"); v != "" {
		cfg.Enhancer.APIKey = v
	}
	if v := os.Getenv("READINESS_ENHANCER_MODEL"); v != "" {
		cfg.Enhancer.Model = v
	}
	if v := os.Getenv("READINESS_ENHANCER_BASE_URL"); v != "" {
		cfg.Enhancer.BaseURL = v
	}
	if v := os.Getenv("READINESS_SHARE_SECRET"); v != "" {
		cfg.Auth.ShareSecret = v
	}
	if v := os.Getenv("READINESS_HOURLY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Scoring.HourlyRate = &f
		}
	}
	if v := os.Getenv("READINESS_NORMALIZE_WEIGHTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.NormalizeWeights = b
		}
	}
	if v := os.Getenv("READINESS_SESSION_TTL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.TTLDays = n
		}
	}
	if v := os.Getenv("READINESS_SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Sessions.SweepIntervalSecs = n
		}
	}
	if v := os.Getenv("READINESS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("READINESS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
