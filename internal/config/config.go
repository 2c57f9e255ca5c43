package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines store configuration. It is constructed explicitly and
// injected at startup; there is no process-wide singleton.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

type StoreConfig struct {
	// Root is the directory holding one subdirectory per project.
	Root string `yaml:"root"`
	// FilesBase is the URL prefix under which project files are served;
	// preview image URLs are built from it.
	FilesBase string `yaml:"files_base"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment
// variables.
func Load() (Config, error) {
	cfg := Config{
		Store: StoreConfig{
			Root:      "projects",
			FilesBase: "/api/projects",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("REELFORGE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if root := os.Getenv("REELFORGE_STORE_ROOT"); root != "" {
		cfg.Store.Root = root
	}
	if base := os.Getenv("REELFORGE_FILES_BASE"); base != "" {
		cfg.Store.FilesBase = base
	}
	if level := os.Getenv("REELFORGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
