// Package config loads and validates spider configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. SPIDER_CRAWLER_USER_AGENT.
const EnvPrefix = "SPIDER"

// Report formats accepted by report.format.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// DefaultMaxBodyBytes caps the response body read per page.
const DefaultMaxBodyBytes = 10 << 20

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Report  ReportConfig  `mapstructure:"report"`
}

// CrawlerConfig governs traversal behavior.
type CrawlerConfig struct {
	UserAgent     string  `mapstructure:"user_agent"`
	DelaySeconds  float64 `mapstructure:"delay_seconds"`
	RespectRobots bool    `mapstructure:"respect_robots"`
	MaxBodyBytes  int     `mapstructure:"max_body_bytes"`
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig controls the diagnostics server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ReportConfig selects the report encoding and destination.
type ReportConfig struct {
	Format string `mapstructure:"format"`
	// Output is a file path; empty means stdout.
	Output string `mapstructure:"output"`
}

// Load builds a Config from v, an optional config file, and the environment.
// Flags bound into v by the caller take precedence over both.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("crawler.user_agent", crawler.DefaultUserAgent)
	v.SetDefault("crawler.delay_seconds", 0)
	v.SetDefault("crawler.respect_robots", false)
	v.SetDefault("crawler.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("report.format", FormatCSV)
	v.SetDefault("report.output", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Crawler.UserAgent) == "" {
		return fmt.Errorf("crawler.user_agent must not be empty")
	}
	if c.Crawler.DelaySeconds < 0 {
		return fmt.Errorf("crawler.delay_seconds must be >= 0")
	}
	if c.Crawler.MaxBodyBytes <= 0 {
		return fmt.Errorf("crawler.max_body_bytes must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	switch c.Report.Format {
	case FormatCSV, FormatMarkdown:
	default:
		return fmt.Errorf("report.format must be %q or %q, got %q", FormatCSV, FormatMarkdown, c.Report.Format)
	}
	return nil
}

// CrawlerConfig converts the crawler section into engine settings.
func (c Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		UserAgent: c.Crawler.UserAgent,
		Delay:     time.Duration(c.Crawler.DelaySeconds * float64(time.Second)),
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// LoggerConfig converts the logging section for logging.New.
func (c Config) LoggerConfig() logging.Config {
	return logging.Config{
		Development: c.Logging.Development,
		Level:       c.Logging.Level,
	}
}
