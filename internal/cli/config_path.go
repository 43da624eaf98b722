package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"probgen/internal/config"
	"probgen/internal/problem"
	"probgen/internal/spec"
)

// resolveConfigPath normalizes a config path or finds it from CWD. An
// empty result means no config file exists.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadSettings loads the config file, or the defaults when there is none,
// and applies a catalog override.
func loadSettings(configPath, catalogPath string) (spec.Config, string, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return spec.Config{}, "", err
	}
	cfg := config.Default()
	if resolved != "" {
		cfg, err = config.Load(resolved)
		if err != nil {
			return spec.Config{}, resolved, err
		}
	}
	if strings.TrimSpace(catalogPath) != "" {
		cfg.Catalog.Path = catalogPath
	}
	return cfg, resolved, nil
}

// loadEngine loads settings and builds the generation engine.
func loadEngine(configPath, catalogPath string) (spec.Config, *problem.Engine, error) {
	cfg, _, err := loadSettings(configPath, catalogPath)
	if err != nil {
		return spec.Config{}, nil, err
	}
	engine, err := config.BuildEngine(cfg)
	if err != nil {
		return spec.Config{}, nil, err
	}
	return cfg, engine, nil
}
