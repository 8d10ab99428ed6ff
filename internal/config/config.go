// Package config provides configuration loading for specd.
//
// Configuration precedence (highest to lowest): environment variables,
// YAML config file (~/.config/specd/config.yaml), hardcoded defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete specd configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Store  StoreConfig  `koanf:"store"`
	Ollama OllamaConfig `koanf:"ollama"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig holds SQLite store configuration.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// OllamaConfig holds generation model configuration.
type OllamaConfig struct {
	Host    string        `koanf:"host"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	if c.Ollama.Host == "" {
		return errors.New("ollama host is required")
	}
	if c.Ollama.Model == "" {
		return errors.New("ollama model is required")
	}
	if c.Ollama.Timeout <= 0 {
		return errors.New("ollama timeout must be positive")
	}
	return nil
}
