package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// QR payload signing material
	QRSigningSecret string
	QRIssuer        string

	// External collaborators
	PDFRendererURL string
	PostHogAPIKey  string

	// Rate limiting, limiter format e.g. "100-M" for 100 requests per minute
	RateLimit string

	// CORS
	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("QR_SIGNING_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("QR_ISSUER", "barangay-records-app")
	viper.SetDefault("PDF_RENDERER_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.QRSigningSecret = viper.GetString("QR_SIGNING_SECRET")
	if cfg.QRSigningSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: QR_SIGNING_SECRET not set. Using default insecure key.")
	}
	cfg.QRIssuer = viper.GetString("QR_ISSUER")

	cfg.PDFRendererURL = viper.GetString("PDF_RENDERER_URL")
	cfg.PostHogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
