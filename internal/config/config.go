package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool        `envconfig:"DEBUG" default:"false"`

	// Application
	App AppConfig

	// Answer and profile store
	Store StoreConfig

	// Site credentials
	Sites SitesConfig

	// Browser automation
	Browser BrowserConfig

	// Job search
	Search SearchConfig

	// Application runner
	Runner RunnerConfig

	// Application tracker
	Tracker TrackerConfig

	// S3/MinIO artifact storage
	S3 S3Config
}

// AppConfig holds application metadata
type AppConfig struct {
	Name    string `envconfig:"APP_NAME" default:"applyforge"`
	Version string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig holds SQLite settings for the answer and profile store
type StoreConfig struct {
	Path        string `envconfig:"STORE_PATH" default:"applyforge.db"`
	JournalMode string `envconfig:"STORE_JOURNAL_MODE" default:"WAL"`
	BusyTimeout int    `envconfig:"STORE_BUSY_TIMEOUT_MS" default:"5000"`
}

// DSN returns the SQLite connection string
func (c StoreConfig) DSN() string {
	return fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=%d", c.Path, c.JournalMode, c.BusyTimeout)
}

// SiteCredentials holds a login for one job board
type SiteCredentials struct {
	Email    string
	Password string
}

// Complete reports whether both fields are set
func (c SiteCredentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// SitesConfig holds credentials per supported job board
type SitesConfig struct {
	LinkedInEmail    string `envconfig:"LINKEDIN_EMAIL" default:""`
	LinkedInPassword string `envconfig:"LINKEDIN_PASSWORD" default:""`
	IndeedEmail      string `envconfig:"INDEED_EMAIL" default:""`
	IndeedPassword   string `envconfig:"INDEED_PASSWORD" default:""`
}

// For returns the credentials for the named site ("linkedin" or "indeed")
func (c SitesConfig) For(site string) SiteCredentials {
	switch strings.ToLower(site) {
	case "linkedin":
		return SiteCredentials{Email: c.LinkedInEmail, Password: c.LinkedInPassword}
	case "indeed":
		return SiteCredentials{Email: c.IndeedEmail, Password: c.IndeedPassword}
	}
	return SiteCredentials{}
}

// BrowserConfig holds browser automation settings
type BrowserConfig struct {
	Headless          bool          `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo            time.Duration `envconfig:"BROWSER_SLOW_MO" default:"0"`
	NavigationTimeout time.Duration `envconfig:"BROWSER_NAVIGATION_TIMEOUT" default:"45s"`
	ActionTimeout     time.Duration `envconfig:"BROWSER_ACTION_TIMEOUT" default:"15s"`
	UserAgent         string        `envconfig:"BROWSER_USER_AGENT" default:""`
	ViewportWidth     int           `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight    int           `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"1080"`
}

// SearchConfig holds the job search query
type SearchConfig struct {
	Title    string `envconfig:"SEARCH_TITLE" default:"Data Analyst"`
	Location string `envconfig:"SEARCH_LOCATION" default:"United States"`
	Resume   string `envconfig:"SEARCH_RESUME" default:"Resources/resume.pdf"`
}

// RunnerConfig holds application-run settings
type RunnerConfig struct {
	MaxApplications int           `envconfig:"RUNNER_MAX_APPLICATIONS" default:"20"`
	ApplyInterval   time.Duration `envconfig:"RUNNER_APPLY_INTERVAL" default:"30s"`
}

// TrackerConfig holds tracker output settings
type TrackerConfig struct {
	WebhookURL     string        `envconfig:"TRACKER_WEBHOOK_URL" default:""`
	WebhookTimeout time.Duration `envconfig:"TRACKER_WEBHOOK_TIMEOUT" default:"10s"`
	CSVPath        string        `envconfig:"TRACKER_CSV_PATH" default:"applications_tracker.csv"`
}

// S3Config holds S3/MinIO settings for run artifacts
type S3Config struct {
	Enabled          bool   `envconfig:"S3_ENABLED" default:"false"`
	Endpoint         string `envconfig:"S3_ENDPOINT" default:"localhost:9000"`
	AccessKeyID      string `envconfig:"S3_ACCESS_KEY_ID" default:"minioadmin"`
	SecretAccessKey  string `envconfig:"S3_SECRET_ACCESS_KEY" default:"minioadmin"`
	Bucket           string `envconfig:"S3_BUCKET" default:"applyforge"`
	Region           string `envconfig:"S3_REGION" default:"us-east-1"`
	UseSSL           bool   `envconfig:"S3_USE_SSL" default:"false"`
	ScreenshotPrefix string `envconfig:"S3_SCREENSHOT_PREFIX" default:"screenshots"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.Store.Path == "" {
		errors = append(errors, "STORE_PATH is required")
	}
	if c.Runner.MaxApplications < 1 {
		errors = append(errors, "RUNNER_MAX_APPLICATIONS must be at least 1")
	}
	if c.Runner.ApplyInterval < 0 {
		errors = append(errors, "RUNNER_APPLY_INTERVAL must not be negative")
	}
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errors = append(errors, "S3_ENDPOINT is required when S3 is enabled")
		}
		if c.S3.Bucket == "" {
			errors = append(errors, "S3_BUCKET is required when S3 is enabled")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// ValidateSite checks that credentials exist for the named site
func (c *Config) ValidateSite(site string) error {
	creds := c.Sites.For(site)
	if !creds.Complete() {
		return fmt.Errorf("missing credentials for site %q: set %s_EMAIL and %s_PASSWORD",
			site, strings.ToUpper(site), strings.ToUpper(site))
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetLogLevel returns the appropriate zap log level
func (c *Config) GetLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
