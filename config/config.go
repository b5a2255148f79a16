package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DB_URL,required,notEmpty"`
	AutoMigrate   bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	CORSOrigin    string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	SiteURL       string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	OTelEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// Supabase hosts auth and the Postgres database behind DB_URL.
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret  string `env:"SUPABASE_JWT_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	PayPal PayPal
}

type PayPal struct {
	APIURL       string `env:"PAYPAL_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"PAYPAL_CLIENT_ID"`
	ClientSecret string `env:"PAYPAL_CLIENT_SECRET"`
	// AccessToken is used only when no client credentials are configured.
	AccessToken   string `env:"PAYPAL_ACCESS_TOKEN"`
	WebhookID     string `env:"PAYPAL_WEBHOOK_ID"`
	StarterPlanID string `env:"PAYPAL_STARTER_PLAN_ID"`
	ProPlanID     string `env:"PAYPAL_PRO_PLAN_ID"`
	AgencyPlanID  string `env:"PAYPAL_AGENCY_PLAN_ID"`

	// One-off order prices. A plan without a price cannot be activated
	// with an orderId.
	Currency     string `env:"PAYPAL_CURRENCY" envDefault:"USD"`
	StarterPrice string `env:"PAYPAL_STARTER_PRICE"`
	ProPrice     string `env:"PAYPAL_PRO_PRICE"`
	AgencyPrice  string `env:"PAYPAL_AGENCY_PRICE"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.SupabaseURL = strings.TrimRight(cfg.SupabaseURL, "/")
	cfg.PayPal.APIURL = strings.TrimRight(cfg.PayPal.APIURL, "/")
	return cfg, nil
}
