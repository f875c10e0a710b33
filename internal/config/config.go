// Package config provides configuration management for blogharvest. Values
// come from a YAML config file, environment variables, and defaults, loaded
// through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"blogharvest/internal/logger"
	"blogharvest/internal/store"
)

// Harvest defaults.
const (
	defaultArticleLimit      = 5
	defaultPolitenessDelay   = 2 * time.Second
	defaultNavigationTimeout = 30 * time.Second
	defaultMinContentLength  = 100
	defaultMaxTitleLength    = 500
)

// Server defaults.
const (
	defaultServerAddress      = ":8080"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 5 * time.Minute
	defaultServerIdleTimeout  = 60 * time.Second
)

// HarvestConfig configures the ingestion pipeline.
type HarvestConfig struct {
	// ListingURL is the base listing page of the source blog.
	ListingURL string `yaml:"listing_url" mapstructure:"listing_url"`
	// ArticleLimit caps articles ingested per run.
	ArticleLimit int `yaml:"article_limit" mapstructure:"article_limit"`
	// PolitenessDelay is the pause between consecutive source requests.
	PolitenessDelay time.Duration `yaml:"politeness_delay" mapstructure:"politeness_delay"`
	// NavigationTimeout bounds a single page load.
	NavigationTimeout time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`
	// UserAgent overrides the default browser user agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headless controls browser headless mode.
	Headless bool `yaml:"headless" mapstructure:"headless"`
	// SelectionOrder is "forward" or "reverse"; see the ingest package.
	SelectionOrder string `yaml:"selection_order" mapstructure:"selection_order"`
	// MinContentLength is the extraction quality gate.
	MinContentLength int `yaml:"min_content_length" mapstructure:"min_content_length"`
	// MaxTitleLength truncates titles before persistence.
	MaxTitleLength int `yaml:"max_title_length" mapstructure:"max_title_length"`
	// TagVocabulary overrides the default fixed tag vocabulary.
	TagVocabulary []string `yaml:"tag_vocabulary" mapstructure:"tag_vocabulary"`
	// Schedule is a cron expression for the scheduler command.
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address      string        `yaml:"address" mapstructure:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// Config represents the application configuration.
type Config struct {
	// Harvest holds ingestion pipeline configuration.
	Harvest HarvestConfig `yaml:"harvest" mapstructure:"harvest"`
	// Database holds PostgreSQL configuration.
	Database store.Config `yaml:"database" mapstructure:"database"`
	// Server holds HTTP server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	// Log holds logger configuration.
	Log logger.Config `yaml:"log" mapstructure:"log"`
}

// Load reads configuration from the given file path (optional), the
// environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present and coherent.
func (c *Config) Validate() error {
	if c.Harvest.ListingURL == "" {
		return fmt.Errorf("harvest.listing_url is required")
	}
	if order := c.Harvest.SelectionOrder; order != "forward" && order != "reverse" {
		return fmt.Errorf("harvest.selection_order must be \"forward\" or \"reverse\", got %q", order)
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(v *viper.Viper) {
	v.SetDefault("harvest.article_limit", defaultArticleLimit)
	v.SetDefault("harvest.politeness_delay", defaultPolitenessDelay)
	v.SetDefault("harvest.navigation_timeout", defaultNavigationTimeout)
	v.SetDefault("harvest.headless", true)
	v.SetDefault("harvest.selection_order", "forward")
	v.SetDefault("harvest.min_content_length", defaultMinContentLength)
	v.SetDefault("harvest.max_title_length", defaultMaxTitleLength)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "blogharvest")
	v.SetDefault("database.dbname", "blogharvest")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("server.address", defaultServerAddress)
	v.SetDefault("server.read_timeout", defaultServerReadTimeout)
	v.SetDefault("server.write_timeout", defaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultServerIdleTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
}
