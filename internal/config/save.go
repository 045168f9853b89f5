package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteRequested saves the config to the --write-config path when one was
// given and returns that path. It returns "" when no path was requested.
func (c *Config) WriteRequested() (string, error) {
	path := WriteConfigPath()
	if path == "" {
		return "", nil
	}
	if err := c.SaveTo(path); err != nil {
		return "", fmt.Errorf("writing config to %s: %w", path, err)
	}
	return path, nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
