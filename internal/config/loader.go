package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadYAML loads a YAML configuration file into the provided config structure.
func LoadYAML(configFile string, config any) error {
	if configFile == "" {
		return fmt.Errorf("config file path is empty")
	}

	f, err := os.Open(configFile)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", configFile, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return fmt.Errorf("failed to decode YAML config from %s: %w", configFile, err)
	}

	return nil
}

// LoadYAMLWithDefaults loads a YAML configuration file into the provided
// config structure. If loading fails, it silently continues with the
// existing values in config. Useful for optional config files.
func LoadYAMLWithDefaults(configFile string, config any) {
	if configFile == "" {
		return
	}

	f, err := os.Open(configFile)
	if err != nil {
		return
	}
	defer f.Close()

	_ = yaml.NewDecoder(f).Decode(config)
}

// SaveYAML saves a configuration structure to a YAML file.
func SaveYAML(configFile string, config any) error {
	if configFile == "" {
		return fmt.Errorf("config file path is empty")
	}

	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", configFile, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f, yaml.Indent(2))
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode YAML config to %s: %w", configFile, err)
	}

	return enc.Close()
}
