// Package config loads server settings from an optional YAML file and
// IMAGE_FILTER_* environment variables.
package config

import (
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-filter-mcp/internal/geometry"
)

// EnvPrefix prefixes every environment override, e.g. IMAGE_FILTER_LOG_LEVEL.
const EnvPrefix = "IMAGE_FILTER"

// Config holds the settings of the filter server.
type Config struct {
	LogLevel      string `mapstructure:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" default:"10" validate:"min=1"`
	LogMaxBackups int    `mapstructure:"log_max_backups" default:"3" validate:"min=0"`

	// DefaultQuality is used by tool calls that do not pass a quality.
	DefaultQuality int `mapstructure:"default_quality" default:"90" validate:"min=0,max=100"`
	// DefaultBehavior is used by tool calls that do not pass a behavior.
	DefaultBehavior string `mapstructure:"default_behavior" default:"both" validate:"oneof=both decrease increase"`
	// MaxSessions caps the number of images held open at once.
	MaxSessions int `mapstructure:"max_sessions" default:"16" validate:"min=1,max=1024"`
}

// Behavior returns DefaultBehavior parsed.
func (c *Config) Behavior() geometry.Behavior {
	b, err := geometry.ParseBehavior(c.DefaultBehavior)
	if err != nil {
		return geometry.Both
	}
	return b
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	// Only fails on malformed tags.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configFile when it is not empty, applies environment overrides
// and validates the result.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registering every key lets AutomaticEnv resolve it during Unmarshal.
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_max_size_mb", cfg.LogMaxSizeMB)
	v.SetDefault("log_max_backups", cfg.LogMaxBackups)
	v.SetDefault("default_quality", cfg.DefaultQuality)
	v.SetDefault("default_behavior", cfg.DefaultBehavior)
	v.SetDefault("max_sessions", cfg.MaxSessions)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", configFile)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.DefaultBehavior = strings.ToLower(cfg.DefaultBehavior)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
