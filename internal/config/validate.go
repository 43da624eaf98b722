package config

import (
	"fmt"
	"os"
	"strings"

	"probgen/internal/logging"
	"probgen/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config and the catalog file it references.
func Validate(cfg *spec.Config) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		collector.add("server.listen_addr", "is required")
	}
	for i, origin := range cfg.Server.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			collector.add(fmt.Sprintf("server.cors_origins[%d]", i), "must not be empty")
		}
	}
	if cfg.Server.ReadTimeoutSeconds < 0 {
		collector.add("server.read_timeout_seconds", "must be positive")
	}
	if cfg.Server.WriteTimeoutSeconds < 0 {
		collector.add("server.write_timeout_seconds", "must be positive")
	}
	if cfg.Server.ShutdownTimeoutSeconds < 0 {
		collector.add("server.shutdown_timeout_seconds", "must be positive")
	}
	if cfg.Server.RateLimit.Requests < 0 {
		collector.add("server.rate_limit.requests", "must not be negative")
	}
	if cfg.Server.RateLimit.WindowSeconds < 0 {
		collector.add("server.rate_limit.window_seconds", "must be positive")
	}

	validateCatalog(cfg.Catalog, collector)

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		collector.add("log.level", "must be one of debug, info, warn, error")
	}
	if !logging.ValidFormat(cfg.Log.Format) {
		collector.add("log.format", "must be text or json")
	}

	if cfg.Evaluator.MaxRange < 0 {
		collector.add("evaluator.max_range", "must be positive")
	}

	if cfg.Normalize != nil {
		validateNormalize(cfg.Normalize, collector)
	}
	return collector.result()
}

func validateCatalog(catalog spec.CatalogConfig, collector *issueCollector) {
	path := strings.TrimSpace(catalog.Path)
	if path == "" {
		collector.add("catalog.path", "is required")
		return
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		collector.add("catalog.path", fmt.Sprintf("file %q does not exist", path))
	case err != nil:
		collector.add("catalog.path", fmt.Sprintf("stat %q: %v", path, err))
	case info.IsDir():
		collector.add("catalog.path", fmt.Sprintf("%q is a directory", path))
	}
}

func validateNormalize(rules *spec.NormalizeConfig, collector *issueCollector) {
	for i, prefix := range rules.ProbabilityPrefixes {
		if strings.TrimSpace(prefix) == "" {
			collector.add(fmt.Sprintf("normalize.probability_prefixes[%d]", i), "must not be empty")
		}
	}
	for i, pair := range rules.OrderedPairs {
		field := fmt.Sprintf("normalize.ordered_pairs[%d]", i)
		if pair.Lower == "" || pair.Upper == "" {
			collector.add(field, "lower and upper are required")
		} else if pair.Lower == pair.Upper {
			collector.add(field, "lower and upper must differ")
		}
	}
	for i, name := range rules.NonNegative {
		if strings.TrimSpace(name) == "" {
			collector.add(fmt.Sprintf("normalize.non_negative[%d]", i), "must not be empty")
		}
	}
	for i, limit := range rules.Caps {
		field := fmt.Sprintf("normalize.caps[%d]", i)
		if limit.Bound == "" {
			collector.add(field+".bound", "is required")
		}
		if len(limit.Names) == 0 {
			collector.add(field+".names", "at least one name is required")
		}
		for _, name := range limit.Names {
			if name == limit.Bound {
				collector.add(field+".names", fmt.Sprintf("%q cannot cap itself", name))
			}
		}
	}
}
