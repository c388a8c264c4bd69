// Package config loads the settings shared by every fintrack command.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands $VAR references and a leading ~ in a file path. A path
// that cannot be resolved is returned as is.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
