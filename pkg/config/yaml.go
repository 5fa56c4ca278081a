package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by Create when the target file already exists
var ErrConfigExists = errors.New("configuration file already exists")

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their defaults; unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", path)
	}

	return cfg, nil
}

// Load resolves the configuration for a run. An explicit path must exist.
// Without one the default location is tried and built-in defaults are used
// when nothing is there. The returned path is the file actually read, empty
// for built-in defaults.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFromFile(explicit)
		return cfg, explicit, err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), "", nil
	}

	cfg, err := LoadFromFile(path)
	return cfg, path, err
}

// SaveToFile saves configuration to a YAML file, replacing any existing one
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write config file")
}

// Create writes cfg to path unless a file is already there and overwrite is
// false, in which case ErrConfigExists is returned
func Create(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrap(ErrConfigExists, path)
		}
	}
	return SaveToFile(cfg, path)
}

// DefaultConfigPath returns ~/.config/cmptree/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	return filepath.Join(home, ".config", "cmptree", "config.yaml"), nil
}
