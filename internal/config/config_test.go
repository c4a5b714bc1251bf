package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "https://api.cloudinary.com", cfg.Cloudinary.APIBase)
	assert.False(t, cfg.Cloudinary.Configured())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse PORT")
}

func TestLoadClient(t *testing.T) {
	t.Setenv("RESUMEAI_API_URL", "http://api.test/api/v1")
	t.Setenv("RESUMEAI_TOKEN", "tok")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "unsigned")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/api/v1", cfg.APIURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Cloudinary.Configured())
}

func TestLoadClient_RejectsZeroPollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0s")

	_, err := LoadClient()
	require.Error(t, err)
}
