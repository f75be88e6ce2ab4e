package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DBUrl                 string
	JWTSecret             string
	AppEnv                string
	AppBaseURL            string
	SupabaseURL           string
	SupabaseBucket        string
	SupabaseServiceKey    string
	StripeSecretKey       string
	StripePlayerPriceID   string
	StripeLifetimePriceID string
	RewardfulSecret       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		DBUrl:                 getEnv("DB_URL", ""),
		JWTSecret:             jwtSecret,
		AppEnv:                normalizeEnv(getEnv("APP_ENV", "production")),
		AppBaseURL:            strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseBucket:        getEnv("SUPABASE_BUCKET", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		StripeSecretKey:       getEnv("STRIPE_SECRET_KEY", ""),
		StripePlayerPriceID:   getEnv("STRIPE_PLAYER_PRICE_ID", ""),
		StripeLifetimePriceID: getEnv("STRIPE_LIFETIME_PRICE_ID", ""),
		RewardfulSecret:       getEnv("REWARDFUL_WEBHOOK_SECRET", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
