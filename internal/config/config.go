package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"quiz-client/internal/i18n"
)

const (
	envPrefix  = "QUIZ"
	configName = "quiz-cli"

	DefaultAPIBaseURL = "http://localhost:8000/api"
	DefaultTriviaURL  = "https://opentdb.com/api.php"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Trivia  TriviaConfig  `mapstructure:"trivia"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	Locale string `mapstructure:"locale"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	Console    bool   `mapstructure:"console"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type TriviaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Amount  int    `mapstructure:"amount"`
}

// NewFlagSet declares the command-line flags Load understands.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "path to a quiz-cli.yaml config file")
	flags.String("api-url", DefaultAPIBaseURL, "quiz API base URL")
	flags.Duration("timeout", 10*time.Second, "HTTP timeout for quiz API calls")
	flags.String("locale", i18n.DefaultLocale, "message language (ko or en)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "logs/quiz-cli.log", "log file path")
	flags.Bool("log-console", false, "also write logs to stderr")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address when set")
	flags.String("trivia-url", DefaultTriviaURL, "OpenTriviaDB endpoint used by import-trivia")
	return flags
}

var flagKeys = map[string]string{
	"api.base_url":    "api-url",
	"api.timeout":     "timeout",
	"ui.locale":       "locale",
	"log.level":       "log-level",
	"log.file":        "log-file",
	"log.console":     "log-console",
	"metrics.addr":    "metrics-addr",
	"trivia.base_url": "trivia-url",
}

// Load merges, from lowest to highest precedence, defaults, the optional
// config file, QUIZ_* environment variables and explicitly set flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicitFile := ""
	if flags != nil {
		for key, name := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
		explicitFile, _ = flags.GetString("config")
	}

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quiz-cli")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.UI.Locale = strings.ToLower(strings.TrimSpace(cfg.UI.Locale))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("ui.locale", i18n.DefaultLocale)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/quiz-cli.log")
	v.SetDefault("log.console", false)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("trivia.base_url", DefaultTriviaURL)
	v.SetDefault("trivia.amount", 10)
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if parsed, err := url.Parse(c.API.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if !i18n.Supported(c.UI.Locale) {
		return fmt.Errorf("ui.locale %q is not supported", c.UI.Locale)
	}
	if c.Trivia.Amount <= 0 {
		return errors.New("trivia.amount must be positive")
	}
	return nil
}
