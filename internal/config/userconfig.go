package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "alumnet"
	configFileName = "config.yaml"
)

// UserConfig represents the user's local configuration stored in
// ~/.config/alumnet/config.yaml
type UserConfig struct {
	APIURL    string `yaml:"api_url,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
	LastEmail string `yaml:"last_email,omitempty"`
}

// UserConfigPath returns the path to the user config file
func UserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// LoadUserConfig reads the user configuration file. A missing file yields an
// empty config.
func LoadUserConfig(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// SaveUserConfig writes the user configuration to path
func SaveUserConfig(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// RememberEmail stores the last email used to sign in
func RememberEmail(path, email string) error {
	cfg, err := LoadUserConfig(path)
	if err != nil {
		return err
	}

	cfg.LastEmail = email
	return SaveUserConfig(path, cfg)
}
