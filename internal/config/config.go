package config

import (
	"errors"
	"os"
	"strconv"
)

// app config, loaded from environment variables
type Config struct {
	Port          string
	Provider      string
	JWTSecret     string
	MongoURI      string
	MongoDBName   string
	RedisAddr     string
	AgentGateway  string
	ReaperEnabled bool
	ReaperCron    string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		Provider:      getEnvOrDefault("AI_PROVIDER", "gemini"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", "dev"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDBName:   getEnvOrDefault("MONGO_DB_NAME", "prepwise"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		AgentGateway:  os.Getenv("AGENT_GATEWAY_URL"),
		ReaperEnabled: getEnvBool("REAPER_ENABLED", true),
		ReaperCron:    getEnvOrDefault("REAPER_SCHEDULE", "0 3 * * *"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
