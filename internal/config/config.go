// Package config loads linkforge configuration from an optional YAML file and
// the process environment. It is the only package that reads either; the
// resolved values are handed to the core as explicit constructor arguments.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yates-Labs/linkforge/internal/llm"
	"github.com/Yates-Labs/linkforge/internal/orchestrator"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "linkforge.yaml"

// Config holds all linkforge configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Server     ServerConfig     `yaml:"server"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LLMConfig configures the completion endpoint.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // groq, openai, deepseek
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ServerConfig configures the HTTP surfaces.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionSecret  string        `yaml:"session_secret"`
	CookieSecure   bool          `yaml:"cookie_secure"`
}

// GenerationConfig configures the generation workflow.
type GenerationConfig struct {
	ParallelVariations bool `yaml:"parallel_variations"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration. It carries no credential.
func Default() Config {
	d := llm.DefaultLLMConfig()
	return Config{
		LLM: LLMConfig{
			Provider:    d.Provider,
			Model:       d.Model,
			BaseURL:     d.BaseURL,
			Temperature: d.Temperature,
			MaxTokens:   d.MaxTokens,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (a missing file is not an error) and applies environment
// overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overlays environment variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("LINKFORGE_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := getenv("LINKFORGE_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if c.LLM.Provider != llm.ProviderGroq && c.LLM.BaseURL == llm.GroqBaseURL {
		// the default endpoint belongs to groq only
		c.LLM.BaseURL = ""
	}

	switch c.LLM.Provider {
	case llm.ProviderGroq:
		if v := getenv("GROQ_MODEL"); v != "" {
			c.LLM.Model = v
		}
		if v := getenv("GROQ_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	case llm.ProviderOpenAI:
		if v := getenv("OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	case llm.ProviderDeepSeek:
		if v := getenv("DEEPSEEK_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
	if v := getenv("LINKFORGE_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("LINKFORGE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}

	if v := getenv("LINKFORGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("LINKFORGE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LINKFORGE_REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}
	if v := getenv("LINKFORGE_SESSION_SECRET"); v != "" {
		c.Server.SessionSecret = v
	}
	if v := getenv("LINKFORGE_PARALLEL_VARIATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LINKFORGE_PARALLEL_VARIATIONS: %w", err)
		}
		c.Generation.ParallelVariations = b
	}
	if v := getenv("LINKFORGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks values that cannot be fixed up later. A missing API key
// is not checked here; the orchestrator rejects it at construction.
func (c Config) Validate() error {
	if c.LLM.Model == "" {
		return errors.New("config: llm.model is required")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("config: server.request_timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("config: llm.max_tokens must not be negative, got %d", c.LLM.MaxTokens)
	}
	return nil
}

// Orchestrator converts the configuration into the workflow's explicit
// construction parameters.
func (c Config) Orchestrator() orchestrator.Config {
	return orchestrator.Config{
		LLM: llm.LLMConfig{
			Provider:    c.LLM.Provider,
			Model:       c.LLM.Model,
			BaseURL:     c.LLM.BaseURL,
			APIKey:      c.LLM.APIKey,
			Temperature: c.LLM.Temperature,
			MaxTokens:   c.LLM.MaxTokens,
		},
		ParallelVariations: c.Generation.ParallelVariations,
	}
}
