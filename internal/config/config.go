// Package config resolves all EcoBot configuration from the environment
// once at startup. The server packages receive the resolved values and
// never read the environment themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Bot identity
const (
	BotName    = "EcoBot"
	BotVersion = "1.0"
)

// Defaults mirrored across the server and the LLM layer.
const (
	DefaultSocketHost  = "0.0.0.0"
	DefaultSocketPort  = 5001
	DefaultAPIPort     = 8000
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.55
	DefaultMaxTokens   = 380

	// DefaultHistoryWindow is how many history entries are sent to the LLM.
	DefaultHistoryWindow = 6
	// DefaultMaxTurns caps the stored conversation per session
	// (a turn is one user message plus one assistant reply).
	DefaultMaxTurns = 40

	DefaultOutDir = "out"
)

// Config holds every value the process needs, resolved before anything
// starts listening.
type Config struct {
	SocketHost string
	SocketPort int

	// HTTP API facade; 0 disables it.
	APIPort int
	// APIKey guards /ask on the HTTP facade. Empty means no auth check.
	APIKey string

	// LLM provider selection: "groq" or "anthropic".
	Provider        string
	GroqAPIKey      string
	GroqModel       string
	AnthropicAPIKey string
	AnthropicModel  string
	Temperature     float64
	MaxTokens       int

	HistoryWindow int
	MaxTurns      int

	// MaxSessions rejects new connections beyond the limit; 0 is unbounded.
	MaxSessions int

	// OutDir receives generated chart PNGs.
	OutDir string

	LogLevel string
	LogPath  string
}

// FromEnv builds a Config from defaults overridden by environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		SocketHost:      envString("ECOBOT_SOCKET_HOST", DefaultSocketHost),
		APIKey:          os.Getenv("ECOBOT_API_KEY"),
		Provider:        strings.ToLower(envString("LLM_PROVIDER", "groq")),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       envString("GROQ_MODEL", DefaultGroqModel),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		Temperature:     DefaultTemperature,
		MaxTokens:       DefaultMaxTokens,
		HistoryWindow:   DefaultHistoryWindow,
		MaxTurns:        DefaultMaxTurns,
		OutDir:          envString("ECOBOT_OUT_DIR", DefaultOutDir),
		LogLevel:        envString("ECOBOT_LOG_LEVEL", "info"),
		LogPath:         os.Getenv("ECOBOT_LOG_PATH"),
	}

	var err error
	if cfg.SocketPort, err = envInt("ECOBOT_SOCKET_PORT", DefaultSocketPort); err != nil {
		return nil, err
	}
	if cfg.APIPort, err = envInt("ECOBOT_API_PORT", 0); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = envInt("ECOBOT_MAX_SESSIONS", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SocketAddr returns the bind address for the socket server.
func (c *Config) SocketAddr() string {
	return fmt.Sprintf("%s:%d", c.SocketHost, c.SocketPort)
}

// APIAddr returns the bind address for the HTTP facade.
func (c *Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.SocketHost, c.APIPort)
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, raw)
	}
	return n, nil
}
