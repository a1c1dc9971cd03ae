package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/healthtracker/internal/history"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// redis, used for rate limiting; empty host disables it
	RedisHost                    string `toml:"redis_host"`
	RedisPort                    string `toml:"redis_port"`
	SubmitRateLimitAllowedPerMin int    `toml:"submit_rate_limit_allowed_per_min"`
	// http
	AllowedOrigins []string `toml:"allowed_origins"`
	// tracker
	HistoryPolicy    string `toml:"history_policy"`
	ChartWidth       int    `toml:"chart_width"`
	ChartHeight      int    `toml:"chart_height"`
	ChartCacheSizeMB int    `toml:"chart_cache_size_mb"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML config file and returns the section for the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is like Load, but reads the config from the given TOML content.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.SubmitRateLimitAllowedPerMin == 0 {
		c.SubmitRateLimitAllowedPerMin = 30
	}
	if c.ChartWidth == 0 {
		c.ChartWidth = 400
	}
	if c.ChartHeight == 0 {
		c.ChartHeight = 320
	}
	if c.ChartCacheSizeMB == 0 {
		c.ChartCacheSizeMB = 64
	}
}

// Validate reports all config problems at once.
func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.PrometheusMetricsPort == "" {
		err = multierr.Append(err, errors.New("prometheus metrics port not set"))
	}
	if _, perr := history.ParsePolicy(c.HistoryPolicy); perr != nil {
		err = multierr.Append(err, perr)
	}
	if c.SubmitRateLimitAllowedPerMin < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid submit rate limit: %d", c.SubmitRateLimitAllowedPerMin))
	}
	if c.ChartWidth < 100 || c.ChartHeight < 100 {
		err = multierr.Append(err, fmt.Errorf("chart size too small: %dx%d", c.ChartWidth, c.ChartHeight))
	}
	if c.ChartCacheSizeMB < 1 {
		err = multierr.Append(err, fmt.Errorf("invalid chart cache size: %d", c.ChartCacheSizeMB))
	}
	return err
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}
