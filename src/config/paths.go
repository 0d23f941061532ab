package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "bookdesk"

// DefaultDatabasePath returns the database location under XDG_STATE_HOME
func DefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, appName, "bookdesk.db")
}

// DefaultConfigPath returns the user configuration file under XDG_CONFIG_HOME
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.json")
}

// ExpandPath expands environment variables and a leading ~/ in path
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
