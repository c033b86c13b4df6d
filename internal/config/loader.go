package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POOLPULSE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POOLPULSE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── API ──
	setStr(&cfg.API.URL, "POOLPULSE_API_URL")
	setStr(&cfg.API.Key, "POOLPULSE_API_KEY")
	setStr(&cfg.API.EncryptedKeyPath, "POOLPULSE_API_ENCRYPTED_KEY_PATH")
	setStr(&cfg.API.KeyPassword, "POOLPULSE_API_KEY_PASSWORD")
	setInt(&cfg.API.RateLimit, "POOLPULSE_API_RATE_LIMIT")
	setDuration(&cfg.API.RateWindow, "POOLPULSE_API_RATE_WINDOW")
	setInt(&cfg.API.MaxRetries, "POOLPULSE_API_MAX_RETRIES")
	setDuration(&cfg.API.RetryDelay, "POOLPULSE_API_RETRY_DELAY")
	setDuration(&cfg.API.Timeout, "POOLPULSE_API_TIMEOUT")

	// ── Deltas ──
	setStringSlice(&cfg.Deltas.Chains, "POOLPULSE_DELTAS_CHAINS")
	setStr(&cfg.Deltas.IncidentStart, "POOLPULSE_DELTAS_INCIDENT_START")
	setStr(&cfg.Deltas.IncidentEnd, "POOLPULSE_DELTAS_INCIDENT_END")
	setFloat64(&cfg.Deltas.MinBoundaryTVL, "POOLPULSE_DELTAS_MIN_BOUNDARY_TVL")
	setDuration(&cfg.Deltas.InterPoolDelay, "POOLPULSE_DELTAS_INTER_POOL_DELAY")

	// ── Per-chain reports ──
	setStr(&cfg.Composition.Chain, "POOLPULSE_COMPOSITION_CHAIN")
	setStr(&cfg.Yields.Chain, "POOLPULSE_YIELDS_CHAIN")
	setStr(&cfg.Merkl.Chain, "POOLPULSE_MERKL_CHAIN")
	setFloat64(&cfg.Monthly.MinTVL, "POOLPULSE_MONTHLY_MIN_TVL")
	setStr(&cfg.TokenList.Chain, "POOLPULSE_TOKEN_LIST_CHAIN")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "POOLPULSE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "POOLPULSE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POOLPULSE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POOLPULSE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POOLPULSE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POOLPULSE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POOLPULSE_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.CacheTTL, "POOLPULSE_REDIS_CACHE_TTL")

	// ── Export ──
	setStr(&cfg.Export.Dir, "POOLPULSE_EXPORT_DIR")
	setBool(&cfg.Export.S3Enabled, "POOLPULSE_EXPORT_S3_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "POOLPULSE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "POOLPULSE_S3_REGION")
	setStr(&cfg.S3.Bucket, "POOLPULSE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "POOLPULSE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "POOLPULSE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "POOLPULSE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "POOLPULSE_S3_FORCE_PATH_STYLE")

	// ── Top-level ──
	setStringSlice(&cfg.Reports, "POOLPULSE_REPORTS")
	setInt(&cfg.Concurrency, "POOLPULSE_CONCURRENCY")
	setStr(&cfg.LogLevel, "POOLPULSE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
