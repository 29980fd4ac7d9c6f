package config

import (
	"errors"
	"fmt"
	"time"

	"city-explorer-api/internal/geocoder"

	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when no database connection string is configured.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource        string        `mapstructure:"DATABASE_URL"`
	GeocodeAPIKey   string        `mapstructure:"GEOCODE_API_KEY"`
	GeocodeBaseURL  string        `mapstructure:"GEOCODE_BASE_URL"`
	GeocodeTimeout  time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
	Port            string        `mapstructure:"PORT"`
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFormat       string        `mapstructure:"LOG_FORMAT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"DATABASE_URL":     "",
	"GEOCODE_API_KEY":  "",
	"GEOCODE_BASE_URL": geocoder.DefaultBaseURL,
	"GEOCODE_TIMEOUT":  10 * time.Second,
	"PORT":             "3000",
	"SERVER_ADDRESS":   "",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "json",
	"GIN_MODE":         "release",
	"SHUTDOWN_TIMEOUT": 10 * time.Second,
}

// LoadConfig reads app.env from path if present, then overrides it with environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks settings the server cannot start without.
func (c Config) Validate() error {
	if c.DBSource == "" {
		return ErrMissingDatabaseURL
	}
	if c.GeocodeTimeout < 0 {
		return fmt.Errorf("config: GEOCODE_TIMEOUT must not be negative, got %s", c.GeocodeTimeout)
	}
	return nil
}

// Addr returns the listen address, preferring SERVER_ADDRESS over PORT.
func (c Config) Addr() string {
	if c.ServerAddress != "" {
		return c.ServerAddress
	}
	return ":" + c.Port
}
