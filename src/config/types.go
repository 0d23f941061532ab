package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the complete configuration for bookdesk
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// HTTP server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Chat completion API configuration
	LLM LLMConfig `json:"llm"`

	// Desk agent configuration
	Agent AgentConfig `json:"agent"`

	// Domain event publishing
	Events EventsConfig `json:"events"`

	// Per-client limits on /chat
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig defines the HTTP listener
type ServerConfig struct {
	Addr            string   `json:"addr" validate:"required"`
	ReadTimeout     Duration `json:"read_timeout" validate:"gte=0"`
	WriteTimeout    Duration `json:"write_timeout" validate:"gte=0"`
	ShutdownTimeout Duration `json:"shutdown_timeout" validate:"gte=0"`

	// CORSOrigins are the browser origins allowed to call the API
	CORSOrigins []string `json:"cors_origins,omitempty" validate:"dive,url"`
}

// DatabaseConfig defines where the SQLite database lives
type DatabaseConfig struct {
	Path string `json:"path" validate:"required"`
}

// LLMConfig defines the OpenAI-compatible chat completion endpoint
type LLMConfig struct {
	// APIKey is normally supplied through the environment
	APIKey string `json:"api_key,omitempty"`

	BaseURL    string   `json:"base_url" validate:"required,url"`
	Model      string   `json:"model" validate:"required"`
	Timeout    Duration `json:"timeout" validate:"gte=0"`
	RetryCount int      `json:"retry_count" validate:"gte=0,lte=10"`
	RetryDelay Duration `json:"retry_delay" validate:"gte=0"`

	// Attribution headers sent to OpenRouter
	SiteURL  string `json:"site_url,omitempty" validate:"omitempty,url"`
	SiteName string `json:"site_name,omitempty"`
}

// AgentConfig defines how the desk agent runs a turn
type AgentConfig struct {
	Temperature     float64  `json:"temperature" validate:"gte=0,lte=2"`
	MaxSteps        int      `json:"max_steps" validate:"gte=0,lte=50"`
	SystemPrompt    string   `json:"system_prompt,omitempty"`
	RecordToolCalls bool     `json:"record_tool_calls"`
	TurnTimeout     Duration `json:"turn_timeout" validate:"gte=0"`
}

// EventsConfig defines the Kafka publisher. Events are dropped when disabled.
type EventsConfig struct {
	Enabled  bool     `json:"enabled"`
	Brokers  []string `json:"brokers,omitempty" validate:"required_if=Enabled true,dive,hostname_port"`
	Topic    string   `json:"topic,omitempty" validate:"required_if=Enabled true"`
	ClientID string   `json:"client_id,omitempty"`
	Timeout  Duration `json:"timeout" validate:"gte=0"`
}

// RateLimitConfig defines the per-IP token bucket on /chat
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled"`
	RequestsPerMinute float64 `json:"requests_per_minute" validate:"gte=0"`
	Burst             int     `json:"burst" validate:"gte=0"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" validate:"log_level"`

	// Format is the output format (text, json)
	Format string `json:"format,omitempty" validate:"log_format"`
}

// Duration is a time.Duration written as a Go duration string such as "30s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}

// ValidationError reports the first invalid field of a configuration
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
