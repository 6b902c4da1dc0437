package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Stripe     StripeConfig     `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Notify     NotifyConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode string `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StripeConfig carries the platform-level Stripe credentials. Per-request
// calls are scoped to a venue's connected account via the Stripe-Account
// header, so only one secret key is configured here.
type StripeConfig struct {
	SecretKey     string `validate:"required"`
	WebhookSecret string `validate:"required"`
}

// BillingConfig carries org-independent billing defaults
type BillingConfig struct {
	// DefaultMinPaymentPercent is the minimum first-payment percentage on a
	// payment link when the organization has not configured one (0-100).
	DefaultMinPaymentPercent int `validate:"gte=0,lte=100"`

	// PaymentLinkTokenSecret signs the JWT embedded in public payment links
	PaymentLinkTokenSecret string `validate:"required"`

	// PaymentLinkTokenTTL bounds how long a payment link stays valid
	PaymentLinkTokenTTL time.Duration
}

// NotifyConfig configures the receipt notification sender
type NotifyConfig struct {
	Enabled    bool
	WebhookURL string
	MaxRetries int
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64
}

func NewConfig() (*Configuration, error) {
	// Local development reads a .env file if present; in deployed
	// environments configuration comes from the environment alone.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/venuebill")

	v.SetEnvPrefix("VENUEBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("deployment.mode", "local")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("billing.defaultminpaymentpercent", 50)
	v.SetDefault("billing.paymentlinktokenttl", 72*time.Hour)
	v.SetDefault("notify.maxretries", 3)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Logging:    LoggingConfig{Level: "debug"},
		Billing: BillingConfig{
			DefaultMinPaymentPercent: 50,
			PaymentLinkTokenSecret:   "test-secret",
			PaymentLinkTokenTTL:      72 * time.Hour,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
