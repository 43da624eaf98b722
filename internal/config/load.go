package config

import (
	"fmt"
	"os"

	"probgen/internal/spec"
)

// Load reads, parses, normalizes, and validates a config file. Relative
// paths inside the file are resolved against the file's directory.
func Load(path string) (spec.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := spec.ParseConfig(data)
	if err != nil {
		return spec.Config{}, err
	}
	Normalize(&cfg)
	cfg.Catalog.Path = ResolvePath(BaseDir(path), cfg.Catalog.Path)
	if err := Validate(&cfg); err != nil {
		return spec.Config{}, err
	}
	return cfg, nil
}

// Default returns the normalized configuration used when no file is given.
func Default() spec.Config {
	cfg := spec.Config{Version: 1}
	Normalize(&cfg)
	return cfg
}
