package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Repository RepositoryConfig  `yaml:"repository"`

	// RepositoryPath is the top-level key of the legacy config.json
	// ({"repositoryPath": "..."}). It only applies when repository.path is unset.
	RepositoryPath string `yaml:"repositoryPath"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Repository.Path == "" {
		c.Repository.Path = c.RepositoryPath
	}
	return c.Repository.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// RepositoryConfig holds the location of the reading-log repository.
// Path may be absolute or relative to the working directory.
type RepositoryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the repository configuration.
func (c *RepositoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with default values. The repository
// path has no default and must come from the config file.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
	}
}
