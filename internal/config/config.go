// Package config loads application settings from an optional YAML file
// and PYTUTOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/pytutor/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. PYTUTOR_HTTP_ADDR.
const EnvPrefix = "PYTUTOR"

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database. Empty means the platform default.
	DBPath string `mapstructure:"db_path"`

	Log     LogConfig     `mapstructure:"log"`
	Redis   RedisConfig   `mapstructure:"redis"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Test    TestConfig    `mapstructure:"test"`
	Content ContentConfig `mapstructure:"content"`
	LLM     llm.Config    `mapstructure:"llm"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// RedisConfig selects the session store. An empty Addr keeps sessions in
// process memory.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Addr        string   `mapstructure:"addr"`
	GinMode     string   `mapstructure:"gin_mode"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type TestConfig struct {
	// Questions is the number of questions drawn for a diagnostic test.
	Questions int `mapstructure:"questions"`
}

type ContentConfig struct {
	// File replaces the built-in catalog when set.
	File string `mapstructure:"file"`
}

// defaults lists every key so environment variables can override any of
// them.
var defaults = map[string]any{
	"db_path": "",

	"log.level":  "info",
	"log.format": "console",
	"log.file":   "",

	"redis.addr":     "",
	"redis.password": "",
	"redis.db":       0,
	"redis.ttl":      "24h",

	"http.addr":         ":8080",
	"http.gin_mode":     "release",
	"http.cors_origins": []string{"*"},

	"test.questions": 10,

	"content.file": "",
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
}

// Load reads configuration. With an explicit path the file must exist;
// otherwise pytutor.yaml is looked up in the working directory and the user
// config directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pytutor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$XDG_CONFIG_HOME/pytutor")
		v.AddConfigPath("$HOME/.config/pytutor")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Test.Questions < 1 {
		errs = append(errs, fmt.Errorf("test.questions must be positive, got %d", c.Test.Questions))
	}
	if c.Redis.TTL <= 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must be positive, got %s", c.Redis.TTL))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
