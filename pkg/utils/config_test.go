package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ride-booking", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, 100, cfg.Nearby.CandidateLimit)
	assert.Equal(t, 50.0, cfg.Nearby.DefaultRadius)
	assert.Equal(t, 2*time.Second, cfg.Outbox.Interval)
	assert.Equal(t, 24*time.Hour, cfg.Geocoder.CacheTTL)
	assert.Empty(t, cfg.NATS.URL)
	assert.True(t, cfg.Limit.Enabled)
	assert.Equal(t, 100, cfg.Limit.Max)
	assert.Equal(t, 15*time.Minute, cfg.Limit.Window)
	assert.Equal(t, 20, cfg.Limit.CreateMax)
	assert.Equal(t, time.Hour, cfg.Limit.CreateWindow)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("OUTBOX_INTERVAL", "500ms")
	t.Setenv("NEARBY_CANDIDATE_LIMIT", "25")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Outbox.Interval)
	assert.Equal(t, 25, cfg.Nearby.CandidateLimit)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}
