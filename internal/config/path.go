// Package config provides configuration utilities for the application.
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
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DataDir returns the directory where model artifacts and exported corpora
// live by default.
func DataDir() string {
	return ExpandPath("~/.local/share/sorthat")
}

// DefaultCorpusPath returns the default exported-corpus location.
func DefaultCorpusPath() string {
	return filepath.Join(DataDir(), "training_data.json")
}

// DefaultModelPath returns the default persisted-model location.
func DefaultModelPath() string {
	return filepath.Join(DataDir(), "model.gob")
}

// DefaultCategoriesPath returns the default category-map location.
func DefaultCategoriesPath() string {
	return filepath.Join(DataDir(), "categories.json")
}
