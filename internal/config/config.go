package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/herbloom/storefront/internal/errors"
)

// Configuration holds the full runtime configuration, loaded once at startup.
type Configuration struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Loop     LoopConfig     `mapstructure:"loop"`
	Shopify  ShopifyConfig  `mapstructure:"shopify"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level          string `mapstructure:"level"`
	FluentdEnabled bool   `mapstructure:"fluentd_enabled"`
	FluentdHost    string `mapstructure:"fluentd_host"`
	FluentdPort    int    `mapstructure:"fluentd_port"`
}

// LoopConfig configures the authoritative subscription service client.
type LoopConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ShopifyConfig configures the mirror commerce platform client. When the
// store domain is empty the mirror is treated as unconfigured and every
// mirror-leg operation short-circuits to a no-op success.
type ShopifyConfig struct {
	StoreDomain string `mapstructure:"store_domain"`
	APIVersion  string `mapstructure:"api_version"`
}

func (c ShopifyConfig) Enabled() bool {
	return c.StoreDomain != ""
}

type CheckoutConfig struct {
	ShopURL string `mapstructure:"shop_url"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// NewConfig loads configuration from config files, .env and environment
// variables, in increasing order of precedence.
func NewConfig() (*Configuration, error) {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "development")
	v.SetDefault("logging.level", "info")
	v.SetDefault("loop.base_url", "https://api.loopwork.co/v1")
	v.SetDefault("loop.timeout", 30*time.Second)
	v.SetDefault("shopify.api_version", "2024-07")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c *Configuration) Validate() error {
	if c.Loop.APIToken == "" {
		return ierr.NewError("loop api token is required").
			WithHint("Set STOREFRONT_LOOP_API_TOKEN").
			Mark(ierr.ErrValidation)
	}
	if c.Loop.BaseURL == "" {
		return ierr.NewError("loop base url is required").
			Mark(ierr.ErrValidation)
	}
	if c.Checkout.ShopURL == "" {
		return ierr.NewError("checkout shop url is required").
			WithHint("Set STOREFRONT_CHECKOUT_SHOP_URL").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
// that do not go through NewConfig.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:  ServerConfig{Address: ":8080", Mode: "development"},
		Logging: LoggingConfig{Level: "debug"},
		Loop: LoopConfig{
			BaseURL:  "https://api.loopwork.co/v1",
			APIToken: "test-token",
			Timeout:  30 * time.Second,
		},
		Shopify:  ShopifyConfig{StoreDomain: "example.myshopify.com", APIVersion: "2024-07"},
		Checkout: CheckoutConfig{ShopURL: "https://example.myshopify.com"},
	}
}
