// Package config provides YAML-based configuration loading with environment variable expansion.
// JSON documents are accepted as well, since JSON is a subset of YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file with environment variable expansion.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadWithDefaults loads filename, or fallbackFile when filename does not exist.
func LoadWithDefaults[T any](filename, fallbackFile string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if fallbackFile != "" {
			if _, err := os.Stat(fallbackFile); err == nil {
				return Load(fallbackFile, target)
			}
		}
		return fmt.Errorf("config file not found: %s", filename)
	}
	return Load(filename, target)
}
