// Package spec holds the service configuration schema.
package spec

type Config struct {
	Version   int              `yaml:"version"`
	Server    ServerConfig     `yaml:"server"`
	Catalog   CatalogConfig    `yaml:"catalog"`
	Log       LogConfig        `yaml:"log"`
	Evaluator EvaluatorConfig  `yaml:"evaluator"`
	Normalize *NormalizeConfig `yaml:"normalize"`
}

type ServerConfig struct {
	ListenAddr             string          `yaml:"listen_addr"`
	CORSOrigins            []string        `yaml:"cors_origins"`
	ReadTimeoutSeconds     int             `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int             `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int             `yaml:"shutdown_timeout_seconds"`
	RateLimit              RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig caps generation requests per client address. Zero
// requests disables limiting.
type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EvaluatorConfig struct {
	MaxRange int64 `yaml:"max_range"`
}

// NormalizeConfig replaces the built-in normalization rules when present.
type NormalizeConfig struct {
	ProbabilityPrefixes []string     `yaml:"probability_prefixes"`
	OrderedPairs        []PairConfig `yaml:"ordered_pairs"`
	NonNegative         []string     `yaml:"non_negative"`
	Caps                []CapConfig  `yaml:"caps"`
}

type PairConfig struct {
	Lower string `yaml:"lower"`
	Upper string `yaml:"upper"`
}

type CapConfig struct {
	Names []string `yaml:"names"`
	Bound string   `yaml:"bound"`
}
