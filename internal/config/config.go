package config

import (
	"os"
	"strconv"
	"time"

	"github.com/vedantkasargod/walmart-x1/internal/orders"
)

// Config collects everything the server reads from the environment.
type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Postgres orders.Credentials

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	GenAIAPIKey    string
	EmbeddingModel string
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		Postgres: orders.Credentials{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "postgres"),
			Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:            getEnv("POSTGRES_DB", "shopping"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
		},

		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModel:   getEnv("LLM_MODEL", "mistralai/mistral-7b-instruct"),
		LLMTimeout: getDuration("LLM_TIMEOUT", 30*time.Second),

		GenAIAPIKey:    getEnv("GENAI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
