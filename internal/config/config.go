// Package config defines the top-level configuration for poolpulse and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by POOLPULSE_* environment
// variables.
type Config struct {
	API         APIConfig         `toml:"api"`
	Deltas      DeltasConfig      `toml:"deltas"`
	Composition CompositionConfig `toml:"composition"`
	Yields      YieldsConfig      `toml:"yields"`
	Merkl       MerklConfig       `toml:"merkl"`
	Monthly     MonthlyConfig     `toml:"monthly"`
	TokenList   TokenListConfig   `toml:"token_list"`
	Redis       RedisConfig       `toml:"redis"`
	Export      ExportConfig      `toml:"export"`
	S3          S3Config          `toml:"s3"`

	// Reports lists which reports to run. Empty means all of them.
	Reports []string `toml:"reports"`

	// Concurrency bounds how many reports run at once. The API client's rate
	// limiter paces requests regardless.
	Concurrency int    `toml:"concurrency"`
	LogLevel    string `toml:"log_level"`
}

// APIConfig holds the analytics API endpoint and client tuning.
type APIConfig struct {
	URL string `toml:"url"`

	// Key is a plaintext API key. Alternatively EncryptedKeyPath points to a
	// key encrypted with KeyPassword; the two sources are mutually exclusive.
	Key              string `toml:"key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`

	// RateLimit requests per RateWindow.
	RateLimit  int      `toml:"rate_limit"`
	RateWindow duration `toml:"rate_window"`

	MaxRetries int      `toml:"max_retries"`
	RetryDelay duration `toml:"retry_delay"`
	Timeout    duration `toml:"timeout"`
}

// DeltasConfig holds the TVL-deltas report parameters.
type DeltasConfig struct {
	Chains []string `toml:"chains"`

	// Incident date range in YYYY-MM-DD form, both days inclusive.
	IncidentStart string `toml:"incident_start"`
	IncidentEnd   string `toml:"incident_end"`

	// MinBoundaryTVL skips pools below this TVL at the incident start.
	MinBoundaryTVL float64  `toml:"min_boundary_tvl"`
	InterPoolDelay duration `toml:"inter_pool_delay"`
}

// IncidentWindow parses the incident date range.
func (d DeltasConfig) IncidentWindow() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", d.IncidentStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: incident_start: %w", err)
	}
	end, err = time.Parse("2006-01-02", d.IncidentEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config: incident_end: %w", err)
	}
	return start, end, nil
}

// CompositionConfig holds the pool-composition report parameters.
type CompositionConfig struct {
	Chain string `toml:"chain"`
}

// YieldsConfig holds the token-yields report parameters.
type YieldsConfig struct {
	Chain string `toml:"chain"`
}

// MerklConfig holds the Merkl-incentives report parameters.
type MerklConfig struct {
	Chain string `toml:"chain"`
}

// MonthlyConfig holds the monthly report parameters.
type MonthlyConfig struct {
	MinTVL float64 `toml:"min_tvl"`
}

// TokenListConfig holds the token-list report parameters.
type TokenListConfig struct {
	Chain string `toml:"chain"`
}

// RedisConfig holds optional response-cache parameters. The tool runs fine
// without Redis.
type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	CacheTTL   duration `toml:"cache_ttl"`
}

// ExportConfig holds output destinations.
type ExportConfig struct {
	// Dir is where CSV files land locally.
	Dir string `toml:"dir"`

	// S3Enabled additionally uploads each table to object storage.
	S3Enabled bool `toml:"s3_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		API: APIConfig{
			URL:        "https://api-v3.balancer.fi",
			RateLimit:  30,
			RateWindow: duration{10 * time.Second},
			MaxRetries: 3,
			RetryDelay: duration{time.Second},
			Timeout:    duration{30 * time.Second},
		},
		Deltas: DeltasConfig{
			Chains: []string{
				"ARBITRUM", "AVALANCHE", "BASE", "GNOSIS", "HYPEREVM",
				"MAINNET", "OPTIMISM", "PLASMA", "POLYGON",
			},
			IncidentStart:  "2025-11-02",
			IncidentEnd:    "2025-11-05",
			MinBoundaryTVL: 300_000,
			InterPoolDelay: duration{100 * time.Millisecond},
		},
		Composition: CompositionConfig{Chain: "PLASMA"},
		Yields:      YieldsConfig{Chain: "PLASMA"},
		Merkl:       MerklConfig{Chain: "PLASMA"},
		Monthly:     MonthlyConfig{MinTVL: 10_000},
		TokenList:   TokenListConfig{Chain: "MAINNET"},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
			CacheTTL:   duration{15 * time.Minute},
		},
		Export: ExportConfig{
			Dir:       "reports",
			S3Enabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "poolpulse-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Reports:     nil,
		Concurrency: 1,
		LogLevel:    "info",
	}
}

// ReportNames enumerates the reports the CLI can run.
var ReportNames = []string{
	"tvl_deltas",
	"pool_composition",
	"token_yields",
	"merkl_incentives",
	"monthly",
	"token_list",
}

var validReports = func() map[string]bool {
	m := make(map[string]bool, len(ReportNames))
	for _, name := range ReportNames {
		m[name] = true
	}
	return m
}()

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Reports
	for _, name := range c.Reports {
		if !validReports[name] {
			errs = append(errs, fmt.Sprintf("unknown report %q (valid: %s)", name, strings.Join(ReportNames, ", ")))
		}
	}
	if c.Concurrency < 1 {
		errs = append(errs, "concurrency must be >= 1")
	}

	// API
	if c.API.URL == "" {
		errs = append(errs, "api: url must not be empty")
	}
	if c.API.RateLimit < 1 {
		errs = append(errs, "api: rate_limit must be >= 1")
	}
	if c.API.RateWindow.Duration <= 0 {
		errs = append(errs, "api: rate_window must be positive")
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, "api: max_retries must be >= 0")
	}
	if c.API.Key != "" && c.API.EncryptedKeyPath != "" {
		errs = append(errs, "api: key and encrypted_key_path are mutually exclusive")
	}
	if c.API.EncryptedKeyPath != "" && c.API.KeyPassword == "" {
		errs = append(errs, "api: key_password is required when encrypted_key_path is set")
	}

	// Deltas
	if len(c.Deltas.Chains) == 0 {
		errs = append(errs, "deltas: chains must not be empty")
	}
	if start, end, err := c.Deltas.IncidentWindow(); err != nil {
		errs = append(errs, fmt.Sprintf("deltas: incident dates must be YYYY-MM-DD: %v", err))
	} else if end.Before(start) {
		errs = append(errs, "deltas: incident_end must not precede incident_start")
	}
	if c.Deltas.MinBoundaryTVL < 0 {
		errs = append(errs, "deltas: min_boundary_tvl must be >= 0")
	}

	// Per-chain reports
	if c.Composition.Chain == "" {
		errs = append(errs, "composition: chain must not be empty")
	}
	if c.Yields.Chain == "" {
		errs = append(errs, "yields: chain must not be empty")
	}
	if c.Merkl.Chain == "" {
		errs = append(errs, "merkl: chain must not be empty")
	}
	if c.Monthly.MinTVL < 0 {
		errs = append(errs, "monthly: min_tvl must be >= 0")
	}
	if c.TokenList.Chain == "" {
		errs = append(errs, "token_list: chain must not be empty")
	}

	// Redis — only matters when enabled.
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.CacheTTL.Duration <= 0 {
			errs = append(errs, "redis: cache_ttl must be positive when enabled")
		}
	}

	// Export
	if c.Export.Dir == "" {
		errs = append(errs, "export: dir must not be empty")
	}
	if c.Export.S3Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when export.s3_enabled is set")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when export.s3_enabled is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
