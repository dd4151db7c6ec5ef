package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/i18nlens/inspector/repository"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides
const EnvPrefix = "I18NLENS_"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds i18nlens settings
type Config struct {
	LocalesURL      string   `yaml:"localesURL"`
	Namespace       string   `yaml:"namespace"`
	Language        string   `yaml:"language"`
	TriggerKey      string   `yaml:"triggerKey"`
	ExcludedClasses []string `yaml:"excludedClasses"`
	MinPressure     float64  `yaml:"minPressure"`
	Listen          string   `yaml:"listen"`
	LogLevel        string   `yaml:"logLevel"`
}

// Default returns default config
func Default() *Config {
	return &Config{
		LocalesURL:      "locales",
		Namespace:       repository.DefaultNamespace,
		TriggerKey:      "ctrl",
		ExcludedClasses: []string{"i18n-editor", "selected-entries", "selection-box"},
		MinPressure:     0.5,
		Listen:          ":8080",
		LogLevel:        "info",
	}
}

// Load reads optional YAML config from URL, then .env files and I18NLENS_* environment overrides
func Load(ctx context.Context, URL string, envFiles ...string) (*Config, error) {
	ret := Default()
	if URL != "" {
		data, err := afs.New().DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to download config %v: %w", URL, err)
		}
		if err = yaml.Unmarshal(data, ret); err != nil {
			return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
		}
	}
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	if err := ret.applyEnv(); err != nil {
		return nil, err
	}
	return ret, ret.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.LocalesURL, "LOCALES_URL")
	setString(&c.Namespace, "NAMESPACE")
	setString(&c.Language, "LANGUAGE")
	setString(&c.TriggerKey, "TRIGGER_KEY")
	setString(&c.Listen, "LISTEN")
	setString(&c.LogLevel, "LOG_LEVEL")
	if v := getEnv("EXCLUDED_CLASSES"); v != "" {
		c.ExcludedClasses = nil
		for _, class := range strings.Split(v, ",") {
			if class = strings.TrimSpace(class); class != "" {
				c.ExcludedClasses = append(c.ExcludedClasses, class)
			}
		}
	}
	if v := getEnv("MIN_PRESSURE"); v != "" {
		pressure, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %vMIN_PRESSURE: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.MinPressure = pressure
	}
	return nil
}

func getEnv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func setString(target *string, key string) {
	if v := getEnv(key); v != "" {
		*target = v
	}
}

// Validate checks config values
func (c *Config) Validate() error {
	if c.LocalesURL == "" {
		return fmt.Errorf("%w: localesURL is required", ErrInvalidConfig)
	}
	if c.MinPressure < 0 || c.MinPressure > 1 {
		return fmt.Errorf("%w: minPressure %v is outside [0, 1]", ErrInvalidConfig, c.MinPressure)
	}
	switch c.TriggerKey {
	case "ctrl", "alt", "shift", "meta":
	default:
		return fmt.Errorf("%w: unsupported triggerKey %q", ErrInvalidConfig, c.TriggerKey)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns log level, info for unknown levels
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
