// Package config provides YAML configuration parsing for elmserve.
//
// This package enables pinning serve settings in a project-local file as an
// alternative to repeating CLI flags. Flags always take precedence over
// file values.
//
// Example configuration:
//
//	host: 0.0.0.0
//	port: 8000
//	root: .
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the CLI flag defaults.
const (
	DefaultHost = "localhost"
	DefaultPort = 8000
	DefaultRoot = "."
)

// Config is the root configuration structure for elmserve.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Host is the bind address for the HTTP server. Defaults to
	// "localhost"; use "0.0.0.0" to accept outside connections.
	Host string `yaml:"host"`

	// Port is the HTTP server port. Defaults to 8000.
	Port int `yaml:"port"`

	// Root is the project directory to serve, relative paths resolved
	// against the working directory. Defaults to ".".
	Root string `yaml:"root"`
}

// Load reads and parses a configuration file.
//
// Returns an error if the file cannot be read, is not valid YAML, or fails
// validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults for absent keys,
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
}

// Validate checks the configuration for out-of-range values. It does not
// touch the filesystem; the served root's existence is checked by the
// server at startup.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}
