package config

import (
	"strings"

	"probgen/internal/expr"
	"probgen/internal/spec"
)

// Defaults applied by Normalize.
const (
	DefaultListenAddr             = ":8000"
	DefaultCatalogPath            = "catalog/questions.yaml"
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "text"
	DefaultReadTimeoutSeconds     = 10
	DefaultWriteTimeoutSeconds    = 30
	DefaultShutdownTimeoutSeconds = 5
	DefaultRateLimitWindowSeconds = 60
)

// Normalize fills unset fields with defaults.
func Normalize(cfg *spec.Config) {
	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = DefaultReadTimeoutSeconds
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = DefaultWriteTimeoutSeconds
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
	if cfg.Server.RateLimit.Requests > 0 && cfg.Server.RateLimit.WindowSeconds == 0 {
		cfg.Server.RateLimit.WindowSeconds = DefaultRateLimitWindowSeconds
	}
	if strings.TrimSpace(cfg.Catalog.Path) == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Evaluator.MaxRange == 0 {
		cfg.Evaluator.MaxRange = expr.DefaultMaxRange
	}
}
