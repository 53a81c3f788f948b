package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable langconv reads.
const EnvPrefix = "LANGCONV_"

// LocalConfigFileNames are searched, in order, in the working directory.
var LocalConfigFileNames = []string{".langconvrc.yaml", ".langconvrc.yml"}

// ConfigError is a configuration problem tied to a file.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Load builds the configuration from defaults, the config file and the
// environment. An empty path falls back to a local config file when one
// exists. The result is validated.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path == "" {
		local, err := FindLocalConfig()
		if err != nil {
			return nil, err
		}
		path = local
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: cfg.Path, Message: err.Error()}
	}
	return cfg, nil
}

// FindLocalConfig returns the first local config file in the working
// directory, or "" when there is none.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Path: path, Message: "config file not found"}
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Path: path, Message: err.Error()}
	}
	cfg.Path = path
	return nil
}

// LoadEnv overlays LANGCONV_* environment variables onto cfg. Unset
// variables leave fields untouched.
func LoadEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
