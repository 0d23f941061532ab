package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// EnvironmentPrefix prefixes every environment override
const EnvironmentPrefix = "BOOKDESK"

// ConfigPrecedence lists the configuration files to read, lowest precedence first
type ConfigPrecedence struct {
	SystemConfig      string
	UserConfig        string
	LocalConfig       string
	EnvironmentPrefix string
}

// Loader handles loading and merging configurations from multiple sources
type Loader struct {
	precedence ConfigPrecedence
	validator  *Validator
}

// NewLoader creates a new configuration loader
func NewLoader(precedence ConfigPrecedence) *Loader {
	return &Loader{
		precedence: precedence,
		validator:  NewValidator(),
	}
}

// Load loads configuration from all sources and merges them. Missing files are skipped.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	for _, path := range []string{
		l.precedence.SystemConfig,
		l.precedence.UserConfig,
		l.precedence.LocalConfig,
	} {
		if path == "" {
			continue
		}
		if err := l.mergeFile(config, ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if l.precedence.EnvironmentPrefix != "" {
		if err := l.applyEnvironmentOverrides(config); err != nil {
			return nil, err
		}
	}

	config.Database.Path = ExpandPath(config.Database.Path)

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// mergeFile decodes the file at path over config. Fields absent from the file keep their value.
func (l *Loader) mergeFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to config
func (l *Loader) applyEnvironmentOverrides(config *Config) error {
	prefix := l.precedence.EnvironmentPrefix + "_"

	// The provider-specific key variables are accepted for compatibility
	for _, name := range []string{"OPENAI_API_KEY", "OPENROUTER_API_KEY", prefix + "API_KEY"} {
		if apiKey := os.Getenv(name); apiKey != "" {
			config.LLM.APIKey = apiKey
		}
	}

	if model := os.Getenv(prefix + "MODEL"); model != "" {
		config.LLM.Model = model
	}
	if baseURL := os.Getenv(prefix + "BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if temp := os.Getenv(prefix + "TEMPERATURE"); temp != "" {
		v, err := strconv.ParseFloat(temp, 64)
		if err != nil {
			return fmt.Errorf("invalid %sTEMPERATURE: %w", prefix, err)
		}
		config.Agent.Temperature = v
	}
	if path := os.Getenv(prefix + "DB"); path != "" {
		config.Database.Path = path
	}
	if addr := os.Getenv(prefix + "ADDR"); addr != "" {
		config.Server.Addr = addr
	}
	if level := os.Getenv(prefix + "LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if format := os.Getenv(prefix + "LOG_FORMAT"); format != "" {
		config.Logging.Format = strings.ToLower(format)
	}

	// Setting brokers turns publishing on
	if brokers := os.Getenv(prefix + "KAFKA_BROKERS"); brokers != "" {
		config.Events.Brokers = splitList(brokers)
		config.Events.Enabled = true
	}
	if topic := os.Getenv(prefix + "KAFKA_TOPIC"); topic != "" {
		config.Events.Topic = topic
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetConfigPaths returns the configuration file paths to check. An explicit path
// replaces the local ./bookdesk.json.
func GetConfigPaths(explicit string) ConfigPrecedence {
	local := "bookdesk.json"
	if explicit != "" {
		local = ExpandPath(explicit)
	}
	return ConfigPrecedence{
		SystemConfig:      "/etc/bookdesk/config.json",
		UserConfig:        DefaultConfigPath(),
		LocalConfig:       local,
		EnvironmentPrefix: EnvironmentPrefix,
	}
}

// Load reads the configuration from the standard locations plus explicit, if given.
// An explicit path that does not exist or is a directory is an error.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		info, err := os.Stat(ExpandPath(explicit))
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("config file: %s is a directory", explicit)
		}
	}
	return NewLoader(GetConfigPaths(explicit)).Load()
}
