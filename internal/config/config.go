// Package config loads the conf-hunt configuration file.
//
// The file is YAML. Missing values fall back to defaults, a few values can be
// overridden from the environment, and the result is validated before use.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/logger"
	"github.com/pfrederiksen/conf-hunt/internal/scraper"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidListingURL = errors.New("listing_url must be an absolute http(s) URL")
	ErrInvalidWindow     = errors.New("window bounds must be non-negative with at_least_days <= at_most_days")
	ErrInvalidTimeout    = errors.New("fetch_timeout_secs must be at least 1")
	ErrInvalidFilters    = errors.New("filters.min_keywords and filters.min_speakers must be non-negative")
	ErrInvalidSchedule   = errors.New("schedule must be a valid cron expression")
	ErrInvalidLogLevel   = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidMailPort   = errors.New("mail.port must be between 1 and 65535")
)

const (
	DefaultSchedule = "0 7 * * 1"
	DefaultDataDir  = "~/.local/share/conf-hunt"
	DefaultMailPort = 25

	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "CONF_HUNT_CONFIG"
)

// Config holds all application configuration.
type Config struct {
	ListingURL       string         `yaml:"listing_url"`
	Window           scraper.Window `yaml:"window"`
	FetchTimeoutSecs int            `yaml:"fetch_timeout_secs"`
	Filters          FiltersConfig  `yaml:"filters"`
	Keywords         []string       `yaml:"keywords"`
	Speakers         []string       `yaml:"speakers"`
	Recipients       []string       `yaml:"recipients"`
	Mail             MailConfig     `yaml:"mail"`
	Schedule         string         `yaml:"schedule"`
	DataDir          string         `yaml:"data_dir"`
	LogLevel         string         `yaml:"log_level"`
}

// FiltersConfig holds the minimum match counts a conference must reach.
type FiltersConfig struct {
	MinKeywords int `yaml:"min_keywords"`
	MinSpeakers int `yaml:"min_speakers"`
}

// MailConfig holds the SMTP relay used for digests.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Addr returns host:port of the relay.
func (m MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// FetchTimeout returns the per-request HTTP timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

const (
	DefaultMinKeywords = 12
	DefaultMinSpeakers = 0
)

// Default returns a configuration usable without a file.
func Default() *Config {
	cfg := &Config{
		Window: scraper.DefaultWindow(),
		Filters: FiltersConfig{
			MinKeywords: DefaultMinKeywords,
			MinSpeakers: DefaultMinSpeakers,
		},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file and applies defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of Default, so keys absent from the
// file keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Resolve loads path, or the file named by CONF_HUNT_CONFIG, or falls back to
// defaults when neither is set.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		cfg := Default()
		applyEnvironmentOverrides(cfg)
		return cfg, cfg.Validate()
	}
	return Load(path)
}

func applyDefaults(cfg *Config) {
	if cfg.ListingURL == "" {
		cfg.ListingURL = scraper.DefaultListingURL
	}
	if cfg.FetchTimeoutSecs == 0 {
		cfg.FetchTimeoutSecs = int(scraper.DefaultTimeout / time.Second)
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = string(logger.LevelInfo)
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = DefaultMailPort
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("CONF_HUNT_LISTING_URL"); v != "" {
		cfg.ListingURL = v
	}
	if v := os.Getenv("CONF_HUNT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CONF_HUNT_SMTP_HOST"); v != "" {
		cfg.Mail.Host = v
	}
	if v := os.Getenv("CONF_HUNT_SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Mail.Port = port
		}
	}
	if v := os.Getenv("CONF_HUNT_SMTP_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ListingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidListingURL
	}
	if c.Window.AtLeastDays < 0 || c.Window.AtMostDays < 0 || c.Window.AtLeastDays > c.Window.AtMostDays {
		return ErrInvalidWindow
	}
	if c.FetchTimeoutSecs < 1 {
		return ErrInvalidTimeout
	}
	if c.Filters.MinKeywords < 0 || c.Filters.MinSpeakers < 0 {
		return ErrInvalidFilters
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return ErrInvalidSchedule
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return ErrInvalidMailPort
	}
	return nil
}
