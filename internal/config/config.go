package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	AI      AIConfig      `yaml:"ai" mapstructure:"ai"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Locale  LocaleConfig  `yaml:"locale" mapstructure:"locale"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// AIConfig selects and configures the completion provider.
type AIConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"` // gemini | anthropic
	GeminiKey    string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel  string `yaml:"gemini_model" mapstructure:"gemini_model"`
	GeminiURL    string `yaml:"gemini_url" mapstructure:"gemini_url"`
	AnthropicKey string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	ClaudeModel  string `yaml:"claude_model" mapstructure:"claude_model"`
}

// ServerConfig configures the price-estimation server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BackendConfig points the client at the price-estimation function.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CacheConfig bounds the client-side response cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// RetryConfig configures the client retry policy.
type RetryConfig struct {
	MaxAttempts      int  `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int  `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	RetryOnEmpty     bool `yaml:"retry_on_empty" mapstructure:"retry_on_empty"`
}

// StoreConfig locates the local history/preferences database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LocaleConfig holds localization defaults.
type LocaleConfig struct {
	DefaultCountry string `yaml:"default_country" mapstructure:"default_country"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".pricescout"))
	}

	// Environment
	v.SetEnvPrefix("PRICESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ai.provider", "gemini")
	// Empty defaults keep secret keys visible to AutomaticEnv during Unmarshal.
	v.SetDefault("ai.gemini_key", "")
	v.SetDefault("ai.gemini_model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini_url", "")
	v.SetDefault("ai.anthropic_key", "")
	v.SetDefault("ai.claude_model", "claude-haiku-4-5-20251001")
	v.SetDefault("server.port", 8080)
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout_secs", 60)
	v.SetDefault("cache.ttl_minutes", 30)
	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("retry.max_attempts", 2)
	v.SetDefault("retry.initial_backoff_ms", 250)
	v.SetDefault("retry.retry_on_empty", true)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("locale.default_country", "IN")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pricescout.db"
	}
	return filepath.Join(home, ".pricescout", "pricescout.db")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
