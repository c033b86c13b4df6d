package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	// API
	out.API = cfg.API
	redact(&out.API.Key)
	redact(&out.API.KeyPassword)

	// Redis
	out.Redis = cfg.Redis
	redact(&out.Redis.Password)

	// S3
	out.S3 = cfg.S3
	redact(&out.S3.AccessKey)
	redact(&out.S3.SecretKey)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Deltas.Chains != nil {
		out.Deltas.Chains = make([]string, len(cfg.Deltas.Chains))
		copy(out.Deltas.Chains, cfg.Deltas.Chains)
	}
	if cfg.Reports != nil {
		out.Reports = make([]string, len(cfg.Reports))
		copy(out.Reports, cfg.Reports)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
