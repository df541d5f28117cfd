// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds server configuration assembled from environment variables.
type Config struct {
	Port        int
	DatabaseURL string

	// OpenAIAPIKey authenticates the summary/extraction provider.
	OpenAIAPIKey string
	// OpenAIModel overrides the chat model; empty uses the provider default.
	OpenAIModel string
	// OpenAIBaseURL overrides the API endpoint, mainly for tests.
	OpenAIBaseURL string

	// GeminiAPIKey authenticates the section-drafting provider. Optional:
	// without it, drafting is disabled and everything else still works.
	GeminiAPIKey string
	GeminiModel  string
}

// FromEnv assembles configuration from environment variables.
// DATABASE_URL and OPENAI_API_KEY are required; the rest have defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          8080,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	return nil
}
