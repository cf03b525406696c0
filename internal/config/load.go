package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("auth.token_lifetime_minutes", 60)

	// Optionally read from a config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Configure environment variables with the TASKBOARD_ prefix
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables. AutomaticEnv alone does
	// not surface keys that are absent from both defaults and config files.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "TASKBOARD_SERVER_PORT"},
		{"server.log_level", "TASKBOARD_SERVER_LOG_LEVEL"},
		{"server.rate_limit_rps", "TASKBOARD_SERVER_RATE_LIMIT_RPS"},
		{"server.rate_limit_burst", "TASKBOARD_SERVER_RATE_LIMIT_BURST"},
		{"database.url", "TASKBOARD_DATABASE_URL"},
		{"auth.jwt_secret", "TASKBOARD_AUTH_JWT_SECRET"},
		{"auth.token_lifetime_minutes", "TASKBOARD_AUTH_TOKEN_LIFETIME_MINUTES"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
