package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads and merges configuration from global and project sources
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(home, ".zentask", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			// Continue with defaults
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		// Project config overrides global
		projectPath := filepath.Join(cwd, "zentask.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			// Continue
		}
	}

	// Env override wins over both files
	if key := os.Getenv("ZENTASK_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".zentask", "config.yaml")
}
