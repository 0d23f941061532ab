package orclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds configuration for the chat completions client
type Config struct {
	APIKey     string        // API key sent as a bearer token
	BaseURL    string        // Base URL of an OpenAI-compatible API
	Logger     *slog.Logger  // Logger for debugging
	Timeout    time.Duration // HTTP timeout
	RetryCount int           // Attempts per request, including the first
	RetryDelay time.Duration // Base delay between attempts
	SiteURL    string        // Site URL for ranking
	SiteName   string        // Site name for ranking
	HTTPClient *http.Client  // Optional; overrides Timeout
}
