// Package config loads and saves the pocketbook.yaml workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file inside a workspace.
const FileName = "pocketbook.yaml"

// Config represents the top-level pocketbook.yaml configuration.
type Config struct {
	Owner     OwnerConfig     `yaml:"owner"`
	Currency  string          `yaml:"currency" validate:"required,len=3,uppercase"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
	NetAssets NetAssetsConfig `yaml:"net_assets"`
}

// OwnerConfig identifies whose book this is.
type OwnerConfig struct {
	Name string `yaml:"name" validate:"required"`
}

// DataConfig locates the book snapshot.
type DataConfig struct {
	BookFile string `yaml:"book_file" validate:"required"` // relative to the workspace
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"oneof=console json"`
}

// NetAssetsConfig tunes the net assets formula.
type NetAssetsConfig struct {
	LendingAddBack bool `yaml:"lending_add_back"`
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// BookPath resolves the book file against the workspace directory.
func (c *Config) BookPath(home string) string {
	if filepath.IsAbs(c.Data.BookFile) {
		return c.Data.BookFile
	}
	return filepath.Join(home, c.Data.BookFile)
}

// Load reads and validates a pocketbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(owner string) *Config {
	return &Config{
		Owner:    OwnerConfig{Name: owner},
		Currency: "EUR",
		Data:     DataConfig{BookFile: "book.yaml"},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		NetAssets: NetAssetsConfig{LendingAddBack: true},
	}
}
