package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"
reports = ["monthly", "token_list"]

[api]
rate_limit = 10
rate_window = "5s"

[deltas]
incident_start = "2025-10-01"
incident_end = "2025-10-03"
min_boundary_tvl = 50000.0

[export]
dir = "out"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"monthly", "token_list"}, cfg.Reports)
	assert.Equal(t, 10, cfg.API.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.API.RateWindow.Duration)
	assert.Equal(t, 50000.0, cfg.Deltas.MinBoundaryTVL)
	assert.Equal(t, "out", cfg.Export.Dir)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://api-v3.balancer.fi", cfg.API.URL)
	assert.Equal(t, "PLASMA", cfg.Composition.Chain)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.API.RateLimit)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POOLPULSE_API_KEY", "sekret")
	t.Setenv("POOLPULSE_DELTAS_CHAINS", "MAINNET, BASE")
	t.Setenv("POOLPULSE_REDIS_ENABLED", "true")
	t.Setenv("POOLPULSE_API_RATE_WINDOW", "20s")
	t.Setenv("POOLPULSE_CONCURRENCY", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sekret", cfg.API.Key)
	assert.Equal(t, []string{"MAINNET", "BASE"}, cfg.Deltas.Chains)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 20*time.Second, cfg.API.RateWindow.Duration)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Reports = []string{"nonsense"}
	cfg.API.RateLimit = 0
	cfg.Deltas.IncidentStart = "yesterday"
	cfg.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), `unknown report "nonsense"`)
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "incident dates")
	assert.Contains(t, err.Error(), "concurrency")
}

func TestValidateIncidentOrdering(t *testing.T) {
	cfg := Defaults()
	cfg.Deltas.IncidentStart = "2025-11-05"
	cfg.Deltas.IncidentEnd = "2025-11-02"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incident_end must not precede incident_start")
}

func TestValidateKeySourcesMutuallyExclusive(t *testing.T) {
	cfg := Defaults()
	cfg.API.Key = "plain"
	cfg.API.EncryptedKeyPath = "key.enc"
	cfg.API.KeyPassword = "pw"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidateS3RequiredWhenEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Export.S3Enabled = true
	cfg.S3.Bucket = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestRedactedConfigMasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.API.Key = "sekret"
	cfg.Redis.Password = "hunter2"
	cfg.S3.SecretKey = "aws-secret"

	red := RedactedConfig(&cfg)
	assert.Equal(t, "***", red.API.Key)
	assert.Equal(t, "***", red.Redis.Password)
	assert.Equal(t, "***", red.S3.SecretKey)

	// Original untouched, and the redacted copy's slices are independent.
	assert.Equal(t, "sekret", cfg.API.Key)
	red.Deltas.Chains[0] = "XXX"
	assert.NotEqual(t, "XXX", cfg.Deltas.Chains[0])
}
