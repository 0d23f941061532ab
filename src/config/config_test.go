package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"OPENAI_API_KEY", "OPENROUTER_API_KEY",
		"BOOKDESK_API_KEY", "BOOKDESK_MODEL", "BOOKDESK_BASE_URL", "BOOKDESK_TEMPERATURE",
		"BOOKDESK_DB", "BOOKDESK_ADDR", "BOOKDESK_LOG_LEVEL", "BOOKDESK_LOG_FORMAT",
		"BOOKDESK_KAFKA_BROKERS", "BOOKDESK_KAFKA_TOPIC",
	} {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, DefaultModel, config.LLM.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", config.LLM.BaseURL)
	assert.Equal(t, 0.0, config.Agent.Temperature)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, config.Server.CORSOrigins)
	assert.False(t, config.Events.Enabled)
	assert.True(t, filepath.IsAbs(config.Database.Path))
	assert.Equal(t, "bookdesk.db", filepath.Base(config.Database.Path))

	require.NoError(t, NewValidator().Validate(config))
}

func TestConfigValidation(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid temperature",
			mutate:  func(c *Config) { c.Agent.Temperature = 3.0 },
			wantErr: true,
		},
		{
			name:    "negative max steps",
			mutate:  func(c *Config) { c.Agent.MaxSteps = -1 },
			wantErr: true,
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.LLM.Model = "" },
			wantErr: true,
		},
		{
			name:    "base url not a url",
			mutate:  func(c *Config) { c.LLM.BaseURL = "openrouter" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "yaml" },
			wantErr: true,
		},
		{
			name:    "events enabled without brokers",
			mutate:  func(c *Config) { c.Events.Enabled = true },
			wantErr: true,
		},
		{
			name: "events enabled with brokers",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Brokers = []string{"localhost:9092"}
			},
			wantErr: false,
		},
		{
			name:    "broker without port",
			mutate:  func(c *Config) { c.Events.Brokers = []string{"localhost"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := validator.Validate(c)
			if tt.wantErr {
				var verr ValidationError
				require.ErrorAs(t, err, &verr)
				assert.NotEmpty(t, verr.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigLoaderMergesFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	user := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(user, []byte(`{
		"llm": {"model": "openai/gpt-4o", "timeout": "30s"},
		"rate_limit": {"burst": 9}
	}`), 0o644))
	local := filepath.Join(dir, "local.json")
	require.NoError(t, os.WriteFile(local, []byte(`{
		"server": {"addr": "127.0.0.1:9000"},
		"database": {"path": "`+filepath.Join(dir, "desk.db")+`"}
	}`), 0o644))

	loader := NewLoader(ConfigPrecedence{
		SystemConfig: filepath.Join(dir, "missing.json"),
		UserConfig:   user,
		LocalConfig:  local,
	})
	config, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o", config.LLM.Model)
	assert.Equal(t, 30*time.Second, config.LLM.Timeout.Std())
	assert.Equal(t, 3, config.LLM.RetryCount)
	assert.Equal(t, 9, config.RateLimit.Burst)
	assert.True(t, config.RateLimit.Enabled)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "desk.db"), config.Database.Path)
	assert.Len(t, config.Server.CORSOrigins, 2)
}

func TestConfigLoaderRejectsBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm": {"timeout": "soon"}}`), 0o644))

	_, err := NewLoader(ConfigPrecedence{UserConfig: path}).Load()
	assert.ErrorContains(t, err, "invalid duration")
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("BOOKDESK_MODEL", "test-model")
	t.Setenv("BOOKDESK_TEMPERATURE", "0.5")
	t.Setenv("BOOKDESK_LOG_LEVEL", "DEBUG")
	t.Setenv("BOOKDESK_KAFKA_BROKERS", "k1:9092, k2:9092")

	config, err := NewLoader(ConfigPrecedence{EnvironmentPrefix: EnvironmentPrefix}).Load()
	require.NoError(t, err)

	assert.Equal(t, "or-key", config.LLM.APIKey)
	assert.Equal(t, "test-model", config.LLM.Model)
	assert.Equal(t, 0.5, config.Agent.Temperature)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.Events.Brokers)

	t.Setenv("BOOKDESK_API_KEY", "desk-key")
	config, err = NewLoader(ConfigPrecedence{EnvironmentPrefix: EnvironmentPrefix}).Load()
	require.NoError(t, err)
	assert.Equal(t, "desk-key", config.LLM.APIKey)

	t.Setenv("BOOKDESK_TEMPERATURE", "warm")
	_, err = NewLoader(ConfigPrecedence{EnvironmentPrefix: EnvironmentPrefix}).Load()
	assert.Error(t, err)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadExplicitDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestLoadExplicitFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bookdesk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"model":"anthropic/claude-3-haiku"}}`), 0o644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", config.LLM.Model)
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, d.Std())

	out, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))

	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("BOOKDESK_TEST_DIR", "/srv/desk")
	assert.Equal(t, "/srv/desk/db.sqlite", ExpandPath("$BOOKDESK_TEST_DIR/db.sqlite"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
}
