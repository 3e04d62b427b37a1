package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Draft     DraftConfig     `yaml:"draft" mapstructure:"draft"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// NotionConfig holds Notion API credentials and the outreach database ID.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	ProfileDB string `yaml:"profile_db" mapstructure:"profile_db"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	ExtractModel  string `yaml:"extract_model" mapstructure:"extract_model"`
	ClassifyModel string `yaml:"classify_model" mapstructure:"classify_model"`
	DraftModel    string `yaml:"draft_model" mapstructure:"draft_model"`
}

// DraftConfig gates outreach draft generation.
type DraftConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	// TemplatesPath points at an optional YAML file with prompt
	// overrides and ask presets.
	TemplatesPath string `yaml:"templates_path" mapstructure:"templates_path"`
}

// ExtractConfig bounds the page text sent to the extraction model.
type ExtractConfig struct {
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
}

// CacheConfig bounds the extraction cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// StoreConfig configures the run-log database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and
// OUTREACH_-prefixed environment variables, with defaults applied.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get empty defaults so AutomaticEnv
	// binding reaches Unmarshal.
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.profile_db", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("draft.provider", "")
	v.SetDefault("draft.templates_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://127.0.0.1:8000", "chrome-extension://*"})
	v.SetDefault("anthropic.extract_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.classify_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.draft_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("extract.max_chars", 25000)
	v.SetDefault("cache.capacity", 50)
	v.SetDefault("store.path", "outreach.db")

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

// Validate checks that the credentials every run needs are present.
// Draft generation is optional and not validated here.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return eris.New("config: notion.token is required")
	}
	if c.Notion.ProfileDB == "" {
		return eris.New("config: notion.profile_db is required")
	}
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required")
	}
	return nil
}

// InitLogger configures the global zap logger from LogConfig.
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
