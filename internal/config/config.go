package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Dev      bool   `yaml:"dev"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	LLM struct {
		Provider string        `yaml:"provider"`
		Model    string        `yaml:"model"`
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`

	Basket struct {
		DeliveryFee int64   `yaml:"delivery_fee"`
		TaxRate     float64 `yaml:"tax_rate"`
	} `yaml:"basket"`

	Assistant struct {
		CheckoutDelay         time.Duration `yaml:"checkout_delay"`
		RecommendationProfile string        `yaml:"recommendation_profile"`
	} `yaml:"assistant"`

	Session struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"session"`

	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
	} `yaml:"telegram"`

	MetricsConfig struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Default returns a configuration with every key set to its default.
func Default() *Config {
	c := &Config{
		Port:           8080,
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
	}
	c.LLM.Provider = "gemini"
	c.LLM.Model = "gemini-2.0-flash"
	c.LLM.Timeout = 30 * time.Second
	c.Database.Driver = "sqlite3"
	c.Database.URL = ":memory:"
	c.Basket.DeliveryFee = 1500
	c.Basket.TaxRate = 0.05
	c.Assistant.CheckoutDelay = 1500 * time.Millisecond
	c.Assistant.RecommendationProfile = "A fan of healthy and spicy local Nigerian food looking for a premium experience."
	c.Session.TTL = 2 * time.Hour
	c.MetricsConfig.Enabled = true
	c.MetricsConfig.Port = 9090
	c.MetricsConfig.Path = "/metrics"
	return c
}

// Load reads the yaml file at path over the defaults, then applies .env and
// environment overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config file %s", path)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = getEnv("OLIF_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("OLIF_LLM_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("OLIF_LLM_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OLIF_LLM_BASE_URL", c.LLM.BaseURL)
	c.Database.Driver = getEnv("OLIF_DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("OLIF_DB_URL", c.Database.URL)
	c.Session.JWTSecret = getEnv("OLIF_JWT_SECRET", c.Session.JWTSecret)
	c.Telegram.Token = getEnv("OLIF_TELEGRAM_TOKEN", c.Telegram.Token)
	c.LogLevel = getEnv("OLIF_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("OLIF_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Basket.DeliveryFee <= 0 {
		return fmt.Errorf("basket delivery fee must be greater than 0")
	}
	if c.Basket.TaxRate < 0 {
		return fmt.Errorf("basket tax rate must not be negative")
	}
	if c.Assistant.CheckoutDelay < 0 {
		return fmt.Errorf("assistant checkout delay must not be negative")
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("telegram is enabled but no token is configured")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
