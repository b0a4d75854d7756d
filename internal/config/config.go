package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultIndustries is the allow-list applied when LEAD_INDUSTRIES is unset.
var DefaultIndustries = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Retail",
	"Manufacturing",
	"Energy",
	"Education",
	"Government",
	"Other",
}

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Lead store binding. One of "redis", "dynamodb", "postgres"; empty
	// disables persistence entirely.
	LeadStore          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	DynamoDBLeadsTable string
	DatabaseURL        string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Email provider selection. One of "sendgrid", "ses", "stub"; empty
	// disables notification.
	EmailProvider  string
	SendGridAPIKey string

	GeoIPDBPath string

	Validation Validation
	Notify     Notify
}

// Validation carries the tunable validation rules so tests and deployments
// can substitute them instead of relying on embedded literals.
type Validation struct {
	Industries []string
}

// Notify carries the notification settings handed to the dispatcher.
type Notify struct {
	Recipient string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LeadStore:          strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", ""))),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		DynamoDBLeadsTable: getEnv("DYNAMODB_LEADS_TABLE", "leads"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		GeoIPDBPath: getEnv("GEOIP_DB_PATH", ""),

		Validation: Validation{
			Industries: getEnvAsSlice("LEAD_INDUSTRIES", DefaultIndustries),
		},
		Notify: Notify{
			Recipient: getEnv("LEAD_RECIPIENT", ""),
			FromEmail: getEnv("EMAIL_FROM", "no-reply@growthops.io"),
			FromName:  getEnv("EMAIL_FROM_NAME", "GrowthOps Leads"),
			Timeout:   getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		},
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable, trimming
// whitespace around each element and dropping empties.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
