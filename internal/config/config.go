package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

type Config struct {
	Environment string `toml:"environment"`
	// api
	ApiBaseURL        string `toml:"api_base_url"`
	ApiToken          string `toml:"api_token"`
	RequestTimeoutSec int    `toml:"request_timeout_sec"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env %s missing", env)
	}

	cfg.Environment = env

	// secrets come from the environment, never from the config file
	if apiToken := os.Getenv("FLUXTRACK_API_TOKEN"); apiToken != "" {
		cfg.ApiToken = apiToken
	}

	if cfg.RequestTimeoutSec == 0 {
		cfg.RequestTimeoutSec = 30
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs error
	if c.ApiBaseURL == "" {
		errs = multierr.Append(errs, errors.New("api_base_url is required"))
	} else if _, err := url.ParseRequestURI(c.ApiBaseURL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("api_base_url invalid: %w", err))
	}
	if c.RequestTimeoutSec < 0 {
		errs = multierr.Append(errs, errors.New("request_timeout_sec must not be negative"))
	}
	return errs
}
