// Package config loads the application configuration from files, the
// environment and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultStoragePath returns where the given backend keeps its data when no
// path is configured. The memory backend has no path.
func DefaultStoragePath(backend string) string {
	switch backend {
	case BackendSQLite:
		return ExpandPath("$HOME/.local/share/finance/finance.db")
	case BackendFile:
		return ExpandPath("$HOME/.local/share/finance/records")
	default:
		return ""
	}
}
