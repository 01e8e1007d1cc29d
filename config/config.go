// Package config reads the process configuration from the environment. A
// .env file in the working directory is honored through godotenv's autoload
// in the command entry points.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings is the full configuration surface shared by the server and
// client commands.
type Settings struct {
	// GroqAPIKey authenticates against the Groq OpenAI-compatible API.
	GroqAPIKey string

	Host string
	Port int

	DefaultModel string
	Temperature  float64
	MaxTokens    int64

	// NATSURL, when set, carries pipeline run events over NATS instead of
	// the in-process broker.
	NATSURL string
}

// Addr is the host:port the server listens on and the client dials.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerURL is the MCP endpoint the client connects to.
func (s Settings) ServerURL() string {
	return fmt.Sprintf("http://%s/mcp", s.Addr())
}

// Load reads settings from the environment, applying defaults for anything
// unset. Only a malformed numeric value is an error; a missing API key is
// left for the caller to reject, so commands that never reach the gateway
// still work.
func Load() (Settings, error) {
	s := Settings{
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		Host:         envOr("MCP_SERVER_HOST", "localhost"),
		DefaultModel: envOr("DEFAULT_MODEL", "llama3-8b-8192"),
		NATSURL:      os.Getenv("NATS_URL"),
	}

	var err error
	if s.Port, err = envInt("MCP_SERVER_PORT", 8000); err != nil {
		return Settings{}, err
	}
	if s.Temperature, err = envFloat("TEMPERATURE", 0.7); err != nil {
		return Settings{}, err
	}
	maxTokens, err := envInt("MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}
	s.MaxTokens = int64(maxTokens)

	return s, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
