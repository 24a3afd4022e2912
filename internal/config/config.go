package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses human-readable YAML values ("2s", "1m30s").
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or an integer nanosecond
// count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(n)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the assistant configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Retry  RetryConfig  `yaml:"retry"`
	Search SearchConfig `yaml:"search"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig holds the tool-execution server settings.
type ServerConfig struct {
	URL            string   `yaml:"url"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
	CallTimeout    Duration `yaml:"call_timeout"`
	ProbeInterval  Duration `yaml:"probe_interval"`
}

// LLMConfig holds the completion backend settings. An empty APIKey (after
// environment resolution) runs the assistant in offline fallback mode.
type LLMConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key,omitempty"`
	APIKeyEnv   string   `yaml:"api_key_env,omitempty"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature float64  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
}

// RetryConfig holds the reconnection policy.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	MaxDelay    Duration `yaml:"max_delay"`
}

// SearchConfig holds the provider search defaults.
type SearchConfig struct {
	Radius float64 `yaml:"radius"`
	Limit  int     `yaml:"limit"`
}

// StoreConfig holds the credential/location store settings. An empty Path
// keeps everything in memory.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load reads a YAML config file, resolves environment references and applies
// defaults. An empty path yields the default configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cfg.LLM.APIKeyEnv != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(cfg.LLM.APIKeyEnv)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("DOWHISTLE_LLM_API_KEY")
	}
	if v := os.Getenv("DOWHISTLE_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = "http://localhost:8000/mcp"
	}
	if c.Server.ConnectTimeout == 0 {
		c.Server.ConnectTimeout = Duration(10 * time.Second)
	}
	if c.Server.CallTimeout == 0 {
		c.Server.CallTimeout = Duration(15 * time.Second)
	}
	if c.Server.ProbeInterval == 0 {
		c.Server.ProbeInterval = Duration(30 * time.Second)
	}

	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = Duration(30 * time.Second)
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 5
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = Duration(2 * time.Second)
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = Duration(30 * time.Second)
	}

	if c.Search.Radius == 0 {
		c.Search.Radius = 5
	}
	if c.Search.Limit == 0 {
		c.Search.Limit = 10
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must be non-negative")
	}
	if c.Retry.BaseDelay <= 0 || c.Retry.MaxDelay <= 0 {
		return fmt.Errorf("retry delays must be positive")
	}
	if c.Search.Radius <= 0 {
		return fmt.Errorf("search.radius must be positive")
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive")
	}
	return nil
}
