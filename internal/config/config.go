package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// AI provider settings
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	EnableAI bool          `mapstructure:"enable_ai"`

	// Analysis settings
	BatchSize       int      `mapstructure:"batch_size"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`

	// Output settings
	OutputFormat string `mapstructure:"output_format"`
	Verbose      bool   `mapstructure:"verbose"`

	// Cache settings
	CachePath   string `mapstructure:"cache_path"`
	EnableCache bool   `mapstructure:"enable_cache"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Timeout:      30 * time.Second,
		EnableAI:     true,
		BatchSize:    4,
		OutputFormat: "text",
		CachePath:    defaultCachePath(),
		EnableCache:  true,
	}
}

// Load reads the config file (if present) and environment overrides on top
// of the defaults. A missing config file is not an error.
func Load() *Config {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())
	v.SetEnvPrefix("CODESAGE")
	v.AutomaticEnv()

	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("enable_ai", cfg.EnableAI)
	v.SetDefault("batch_size", cfg.BatchSize)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("cache_path", cfg.CachePath)
	v.SetDefault("enable_cache", cfg.EnableCache)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Unreadable config falls back to defaults rather than aborting.
			return cfg
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return DefaultConfig()
	}

	cfg.resolveAPIKey()
	return cfg
}

// Save writes the current configuration to the config file.
func (c *Config) Save() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(Path())
	v.Set("provider", c.Provider)
	v.Set("model", c.Model)
	v.Set("api_key", c.APIKey)
	v.Set("base_url", c.BaseURL)
	v.Set("timeout", c.Timeout)
	v.Set("enable_ai", c.EnableAI)
	v.Set("batch_size", c.BatchSize)
	v.Set("exclude_patterns", c.ExcludePatterns)
	v.Set("output_format", c.OutputFormat)
	v.Set("cache_path", c.CachePath)
	v.Set("enable_cache", c.EnableCache)

	return v.WriteConfig()
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Validate clamps out-of-range values instead of failing.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		c.BatchSize = 4
	}
	if c.BatchSize > 32 {
		c.BatchSize = 32
	}

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	switch c.OutputFormat {
	case "text", "table", "json":
	default:
		c.OutputFormat = "text"
	}

	return nil
}

// resolveAPIKey falls back to the conventional environment variables when
// no key is configured.
func (c *Config) resolveAPIKey() {
	if c.APIKey != "" {
		return
	}

	switch c.Provider {
	case "openai", "openai-compatible":
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	case "claude":
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if c.APIKey == "" {
		c.APIKey = os.Getenv("CODESAGE_API_KEY")
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "codesage")
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "codesage-cache.db"
	}
	return filepath.Join(home, ".cache", "codesage", "responses.db")
}
