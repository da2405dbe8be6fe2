// Package config loads the user configuration for karmawatch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound  = errors.New("no configuration file found: create ~/.config/karmawatch/config.toml")
	ErrUsernameMissing = errors.New("username is not configured: set username in ~/.config/karmawatch/config.toml")
)

// Config represents the user configuration
type Config struct {
	// Username is the account name on the update feed, used to recognize
	// the user's own submissions and comments. Required.
	Username string `toml:"username" yaml:"username"`

	// Interests optionally restricts notifications to updates covering
	// these package names. Empty or absent means no restriction.
	Interests []string `toml:"interests,omitempty" yaml:"interests,omitempty"`

	// Release overrides the detected release identifier, e.g. "F41"
	Release string `toml:"release,omitempty" yaml:"release,omitempty"`

	// WaitSeconds bounds how long the process keeps listening for
	// notification clicks after the last notification is sent
	WaitSeconds int `toml:"wait_seconds,omitempty" yaml:"wait_seconds,omitempty"`
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/karmawatch/config.toml (XDG standard - priority)
// 2. ~/.config/karmawatch/config.yaml
// 3. ~/.config/fedora.toml (path used by the original notifier tool)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "karmawatch", "config.toml"),
		filepath.Join(xdgConfig, "karmawatch", "config.yaml"),
		filepath.Join(xdgConfig, "fedora.toml"),
	}, nil
}

// FindConfigPath returns the first existing config file path
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrConfigNotFound
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path. The format is
// chosen by extension: .yaml/.yml parses as YAML, everything else as TOML.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks required fields and normalizes optional ones once at load
// time, so nothing downstream has to re-check the schema
func (c *Config) validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return ErrUsernameMissing
	}

	// Drop empty interest entries; an empty resulting list means no
	// restriction, not "match nothing"
	var interests []string
	for _, name := range c.Interests {
		if name = strings.TrimSpace(name); name != "" {
			interests = append(interests, name)
		}
	}
	c.Interests = interests

	c.Release = strings.TrimSpace(c.Release)
	if c.WaitSeconds < 0 {
		c.WaitSeconds = 0
	}

	return nil
}
