package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application-wide configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	DatabaseURL string
	SentryDSN   string

	GCSBucketName    string
	GCSContentPrefix string

	OpenAIAPIKey        string
	OpenAIBaseURL       string
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int

	CategoryConfigPath string
	CORSAllowedOrigin  string
}

// LoadConfig reads configuration from environment variables or a .env file.
// It is the single source of truth for application configuration.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists. In production these are set directly
	// in the environment.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("FATAL: DATABASE_URL environment variable not set")
	}

	gcsBucketName := os.Getenv("GCS_BUCKET_NAME")
	if gcsBucketName == "" {
		return nil, fmt.Errorf("FATAL: GCS_BUCKET_NAME environment variable not set")
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return nil, fmt.Errorf("FATAL: OPENAI_API_KEY environment variable not set")
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		return nil, fmt.Errorf("FATAL: SENTRY_DSN environment variable not set")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	dimensions := 1536
	if raw := os.Getenv("EMBEDDING_DIMENSIONS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("FATAL: EMBEDDING_DIMENSIONS must be a positive integer, got %q", raw)
		}
		dimensions = parsed
	}

	return &Config{
		AppEnv:      appEnv,
		DatabaseURL: dbURL,
		SentryDSN:   sentryDSN,

		GCSBucketName:    gcsBucketName,
		GCSContentPrefix: envOrDefault("GCS_CONTENT_PREFIX", "content-library/"),

		OpenAIAPIKey:        openAIKey,
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		ChatModel:           envOrDefault("CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      envOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: dimensions,

		CategoryConfigPath: envOrDefault("CATEGORY_CONFIG_PATH", "./configs/content_categories.yaml"),
		CORSAllowedOrigin:  envOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
