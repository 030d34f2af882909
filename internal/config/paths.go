// ABOUTME: Standard filesystem location of the reflow configuration file
// ABOUTME: Resolves $XDG_CONFIG_HOME/termreflow, falling back to ~/.config/termreflow

package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName     = "termreflow"
	configFileName = "config.yaml"
)

// Dir returns the configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultPath returns the configuration file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}
