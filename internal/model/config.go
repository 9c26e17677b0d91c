package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig holds the connection settings for the hosted backend.
// URL and AnonKey are both required; the application refuses to start
// without them.
type BackendConfig struct {
	// URL is the project root URL of the backend (auth and table
	// storage share the same host).
	URL string `mapstructure:"url" yaml:"url"`

	// AnonKey is the public API key sent with every request.
	AnonKey string `mapstructure:"anon_key" yaml:"anon_key"`

	// OAuthRedirectURL is where the provider sends the user after the
	// OAuth consent screen.
	OAuthRedirectURL string `mapstructure:"oauth_redirect_url" yaml:"oauth_redirect_url"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// Timezone is an IANA zone name used for calendar bucketing.
	// Empty means the system's local zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskcal/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskcal", "config.yaml")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables TASKCAL_BACKEND_URL and TASKCAL_BACKEND_ANON_KEY
// override the file, so a config file is optional when both are set.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("display.theme", "default")
	v.SetDefault("backend.oauth_redirect_url", "http://localhost:3000/auth/callback")

	v.SetEnvPrefix("taskcal")
	_ = v.BindEnv("backend.url", "TASKCAL_BACKEND_URL")
	_ = v.BindEnv("backend.anon_key", "TASKCAL_BACKEND_ANON_KEY")
	_ = v.BindEnv("backend.oauth_redirect_url", "TASKCAL_OAUTH_REDIRECT_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			if _, ok := err.(*os.PathError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
		// Missing file is fine; env vars may still satisfy Validate.
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the required backend settings are present.
// A failure here is fatal at startup.
func (c *AppConfig) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend url is not set (config backend.url or TASKCAL_BACKEND_URL)")
	}
	if c.Backend.AnonKey == "" {
		return errors.New("backend anon key is not set (config backend.anon_key or TASKCAL_BACKEND_ANON_KEY)")
	}
	return nil
}
