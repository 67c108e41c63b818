package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable that points at a config file.
// The -config flag takes precedence over it.
const EnvConfig = "PORTALVIEW_CONFIG"

// fileName is the config file looked for in the working and user config
// directories.
const fileName = "config.yaml"

// Load loads configuration with priority: defaults < file < flags, then
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing candidate: $PORTALVIEW_CONFIG,
// ./config.yaml, then the user config directory.
func findConfigFile() string {
	candidates := []string{
		os.Getenv(EnvConfig),
		fileName,
		filepath.Join(ConfigDir(), fileName),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory: the platform's user
// config root (XDG_CONFIG_HOME, ~/Library/Application Support, %AppData%)
// plus "portalview".
func ConfigDir() string {
	root, err := os.UserConfigDir()
	if err != nil {
		root = os.TempDir()
	}
	return filepath.Join(root, "portalview")
}

// loadFromFile merges a YAML file over cfg. Unknown keys are errors so a
// misspelled setting does not silently fall back to its default; an empty
// file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
