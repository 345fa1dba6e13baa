// File: /config/config.go
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	FrontendURL string

	// Storage
	DatabaseDriver string
	DatabaseURL    string
	PostStore      string
	MongoURL       string
	MongoDatabase  string

	// Redis backs the analytics cache and the realtime fan-out. Empty disables both.
	RedisAddr         string
	RedisPassword     string
	AnalyticsCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	// LinkedIn OAuth
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURI  string

	OpenAIAPIKey string
	OpenAIModel  string

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Scheduler
	SchedulerEnabled        bool
	SchedulerInterval       time.Duration
	SchedulerBatchSize      int
	SchedulerConcurrency    int
	SchedulerPublishTimeout time.Duration
	SchedulerClaimTTL       time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		FrontendURL: v.GetString("FRONTEND_URL"),

		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		PostStore:      strings.ToLower(v.GetString("POST_STORE")),
		MongoURL:       v.GetString("MONGO_URL"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),

		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		AnalyticsCacheTTL: v.GetDuration("ANALYTICS_CACHE_TTL"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		LinkedInClientID:     v.GetString("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: v.GetString("LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURI:  v.GetString("LINKEDIN_REDIRECT_URI"),

		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
		OpenAIModel:  v.GetString("OPENAI_MODEL"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		FromEmail:    v.GetString("FROM_EMAIL"),
		FromName:     v.GetString("FROM_NAME"),

		SchedulerEnabled:        v.GetBool("SCHEDULER_ENABLED"),
		SchedulerInterval:       v.GetDuration("SCHEDULER_INTERVAL"),
		SchedulerBatchSize:      v.GetInt("SCHEDULER_BATCH_SIZE"),
		SchedulerConcurrency:    v.GetInt("SCHEDULER_CONCURRENCY"),
		SchedulerPublishTimeout: v.GetDuration("SCHEDULER_PUBLISH_TIMEOUT"),
		SchedulerClaimTTL:       v.GetDuration("SCHEDULER_CLAIM_TTL"),

		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8001")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "socialpulse.db")
	v.SetDefault("POST_STORE", "sql")
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "socialpulse")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("ANALYTICS_CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_TTL", "168h")

	v.SetDefault("LINKEDIN_REDIRECT_URI", "http://localhost:8001/api/auth/linkedin/callback")

	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	v.SetDefault("SMTP_HOST", "sandbox.smtp.mailtrap.io")
	v.SetDefault("SMTP_PORT", 2525)
	v.SetDefault("FROM_EMAIL", "noreply@socialpulse.app")
	v.SetDefault("FROM_NAME", "SocialPulse")

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_INTERVAL", "1m")
	v.SetDefault("SCHEDULER_BATCH_SIZE", 100)
	v.SetDefault("SCHEDULER_CONCURRENCY", 1)
	v.SetDefault("SCHEDULER_PUBLISH_TIMEOUT", "30s")
	v.SetDefault("SCHEDULER_CLAIM_TTL", "10m")

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
}
