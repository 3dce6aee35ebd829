package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// cliConfig holds defaults loaded from the optional config file. Flags
// always win over file values.
type cliConfig struct {
	Lang           string `yaml:"lang"`
	Format         string `yaml:"format"`
	Copy           bool   `yaml:"copy"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		Format:         "text",
		TimeoutSeconds: 20,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".captionctl.yaml")
}

// loadCLIConfig reads the config file at path. A missing file at the
// default location is fine; an explicitly requested file must exist.
func loadCLIConfig(path string, explicit bool) (*cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 20
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	return cfg, nil
}
