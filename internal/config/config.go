// Package config handles the loading and parsing of the application's configuration.
// It uses the Viper library to read from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings defines the overall configuration structure for rosterscraper.
// It mirrors the structure of rosterscraper.yaml and is populated by Viper.
type Settings struct {
	Browser   BrowserConfig  `mapstructure:"browser"`
	Profile   PipelineConfig `mapstructure:"profile"`
	Valuation PipelineConfig `mapstructure:"valuation"`
	Output    OutputConfig   `mapstructure:"output"`
	Log       LogConfig      `mapstructure:"log"`
	Redis     RedisConfig    `mapstructure:"redis"`
}

// BrowserConfig controls the headless Chrome session.
type BrowserConfig struct {
	Headless           bool          `mapstructure:"headless"`
	UserAgents         []string      `mapstructure:"user_agents"`
	NavigateRetryDelay time.Duration `mapstructure:"navigate_retry_delay"`
	NavigateTimeout    time.Duration `mapstructure:"navigate_timeout"`
	ScrollPollMin      time.Duration `mapstructure:"scroll_poll_min"`
	ScrollPollMax      time.Duration `mapstructure:"scroll_poll_max"`
	MaxScrollIters     int           `mapstructure:"max_scroll_iterations"`
	// MaxNavigationsPerSecond throttles page loads; 0 disables the limiter.
	MaxNavigationsPerSecond float64 `mapstructure:"max_navigations_per_second"`
}

// PipelineConfig holds the timing knobs of one pipeline variant.
type PipelineConfig struct {
	Prefix           string        `mapstructure:"prefix"`
	DefaultOutputDir string        `mapstructure:"default_output_dir"`
	MaxRetries       int           `mapstructure:"max_retries"`
	// NavigateAttempts bounds the navigations inside one fetch attempt.
	NavigateAttempts int           `mapstructure:"navigate_attempts"`
	ListingTimeout   time.Duration `mapstructure:"listing_timeout"`
	DetailTimeout    time.Duration `mapstructure:"detail_timeout"`
	ListingSettle    time.Duration `mapstructure:"listing_settle"`
	PreFetchMin      time.Duration `mapstructure:"pre_fetch_min"`
	PreFetchMax      time.Duration `mapstructure:"pre_fetch_max"`
	SettleMin        time.Duration `mapstructure:"settle_min"`
	SettleMax        time.Duration `mapstructure:"settle_max"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	RetryJitterMin   time.Duration `mapstructure:"retry_jitter_min"`
	RetryJitterMax   time.Duration `mapstructure:"retry_jitter_max"`
	BetweenMin       time.Duration `mapstructure:"between_min"`
	BetweenMax       time.Duration `mapstructure:"between_max"`
}

// OutputConfig controls where diagnostics land.
type OutputConfig struct {
	DebugDirName   string `mapstructure:"debug_dir_name"`
	DebugSnapshots bool   `mapstructure:"debug_snapshots"`
	ListingDump    string `mapstructure:"listing_dump"`
}

// LogConfig holds the configuration for the logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	JSONFormat bool   `mapstructure:"json_format"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// RedisConfig holds the configuration for the optional URL-set mirror.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Key     string `mapstructure:"key"`
}

// DefaultUserAgents returns the identity pool a session picks from.
func DefaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/88.0.4324.96 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:85.0) Gecko/20100101 Firefox/85.0",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.5938.62 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	}
}

// Default returns the settings used when no file or env override is present.
func Default() Settings {
	return Settings{
		Browser: BrowserConfig{
			Headless:           true,
			UserAgents:         DefaultUserAgents(),
			NavigateRetryDelay: 2 * time.Second,
			NavigateTimeout:    60 * time.Second,
			ScrollPollMin:      2 * time.Second,
			ScrollPollMax:      3 * time.Second,
			MaxScrollIters:     50,
		},
		Profile: PipelineConfig{
			Prefix:           "SCRIPT_1",
			DefaultOutputDir: "OUTPUT",
			MaxRetries:       3,
			NavigateAttempts: 3,
			ListingTimeout:   30 * time.Second,
			DetailTimeout:    10 * time.Second,
			ListingSettle:    3 * time.Second,
			SettleMin:        2 * time.Second,
			SettleMax:        4 * time.Second,
			RetryJitterMin:   2 * time.Second,
			RetryJitterMax:   4 * time.Second,
			BetweenMin:       1500 * time.Millisecond,
			BetweenMax:       3500 * time.Millisecond,
		},
		Valuation: PipelineConfig{
			Prefix:           "SCRIPT_2",
			DefaultOutputDir: "output",
			MaxRetries:       3,
			NavigateAttempts: 1,
			ListingTimeout:   20 * time.Second,
			DetailTimeout:    10 * time.Second,
			PreFetchMin:      4 * time.Second,
			PreFetchMax:      7 * time.Second,
			RetryDelay:       3 * time.Second,
			BetweenMin:       1 * time.Second,
			BetweenMax:       2500 * time.Millisecond,
		},
		Output: OutputConfig{
			DebugDirName:   "DEBUG",
			DebugSnapshots: true,
			ListingDump:    "page_dump.html",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
			Key: "rosterscraper:detail_urls",
		},
	}
}

// LoadConfig reads configuration from the file at path (or rosterscraper.yaml
// in the working directory when path is empty) and environment variables
// prefixed with ROSTER_, on top of Default().
func LoadConfig(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("rosterscraper")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Browser.UserAgents) == 0 {
		cfg.Browser.UserAgents = DefaultUserAgents()
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.user_agents", d.Browser.UserAgents)
	v.SetDefault("browser.navigate_retry_delay", d.Browser.NavigateRetryDelay)
	v.SetDefault("browser.navigate_timeout", d.Browser.NavigateTimeout)
	v.SetDefault("browser.scroll_poll_min", d.Browser.ScrollPollMin)
	v.SetDefault("browser.scroll_poll_max", d.Browser.ScrollPollMax)
	v.SetDefault("browser.max_scroll_iterations", d.Browser.MaxScrollIters)
	v.SetDefault("browser.max_navigations_per_second", d.Browser.MaxNavigationsPerSecond)

	setPipelineDefaults(v, "profile", d.Profile)
	setPipelineDefaults(v, "valuation", d.Valuation)

	v.SetDefault("output.debug_dir_name", d.Output.DebugDirName)
	v.SetDefault("output.debug_snapshots", d.Output.DebugSnapshots)
	v.SetDefault("output.listing_dump", d.Output.ListingDump)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json_format", d.Log.JSONFormat)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.url", d.Redis.URL)
	v.SetDefault("redis.key", d.Redis.Key)
}

func setPipelineDefaults(v *viper.Viper, prefix string, p PipelineConfig) {
	v.SetDefault(prefix+".prefix", p.Prefix)
	v.SetDefault(prefix+".default_output_dir", p.DefaultOutputDir)
	v.SetDefault(prefix+".max_retries", p.MaxRetries)
	v.SetDefault(prefix+".navigate_attempts", p.NavigateAttempts)
	v.SetDefault(prefix+".listing_timeout", p.ListingTimeout)
	v.SetDefault(prefix+".detail_timeout", p.DetailTimeout)
	v.SetDefault(prefix+".listing_settle", p.ListingSettle)
	v.SetDefault(prefix+".pre_fetch_min", p.PreFetchMin)
	v.SetDefault(prefix+".pre_fetch_max", p.PreFetchMax)
	v.SetDefault(prefix+".settle_min", p.SettleMin)
	v.SetDefault(prefix+".settle_max", p.SettleMax)
	v.SetDefault(prefix+".retry_delay", p.RetryDelay)
	v.SetDefault(prefix+".retry_jitter_min", p.RetryJitterMin)
	v.SetDefault(prefix+".retry_jitter_max", p.RetryJitterMax)
	v.SetDefault(prefix+".between_min", p.BetweenMin)
	v.SetDefault(prefix+".between_max", p.BetweenMax)
}
