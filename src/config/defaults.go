package config

import (
	"time"

	"github.com/elee1766/bookdesk/src/orclient"
)

const (
	DefaultModel = "openai/gpt-4o-mini"
	DefaultAddr  = ":8000"
)

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(2 * time.Minute),
			ShutdownTimeout: Duration(10 * time.Second),
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},

		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},

		LLM: LLMConfig{
			BaseURL:    orclient.DefaultBaseURL,
			Model:      DefaultModel,
			Timeout:    Duration(60 * time.Second),
			RetryCount: 3,
			RetryDelay: Duration(time.Second),
		},

		Agent: AgentConfig{
			Temperature:     0,
			MaxSteps:        8,
			RecordToolCalls: true,
			TurnTimeout:     Duration(90 * time.Second),
		},

		Events: EventsConfig{
			Enabled:  false,
			Topic:    "bookdesk.events",
			ClientID: "bookdesk",
			Timeout:  Duration(5 * time.Second),
		},

		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			Burst:             5,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
