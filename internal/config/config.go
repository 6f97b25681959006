package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Forecast struct {
		Workers      int    `yaml:"workers"`
		ArtifactPath string `yaml:"artifact_path"`
	} `yaml:"forecast"`
}

func defaults() *Config {
	cfg := &Config{Environment: "prod"}
	cfg.Server.Port = 7860
	cfg.Forecast.Workers = 4
	cfg.Forecast.ArtifactPath = "models/gradient_boosted.json"
	return cfg
}

// Load reads the YAML config at path, falling back to defaults when the
// file is absent. PORT and AGRIPREDICT_ENV env vars override the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if env := os.Getenv("AGRIPREDICT_ENV"); env != "" {
		cfg.Environment = env
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("server port must be positive, got %d", cfg.Server.Port)
	}
	if cfg.Forecast.Workers <= 0 {
		return nil, fmt.Errorf("forecast workers must be positive, got %d", cfg.Forecast.Workers)
	}

	return cfg, nil
}
