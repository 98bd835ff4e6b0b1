package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Remote.BaseURL = "http://head-office.local"
	applyDefaults(cfg)

	assert.Equal(t, "omnipos-terminal", cfg.App.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "omnipos.db", cfg.Database.Path)
	assert.Equal(t, 15*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Remote.ProbeInterval)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TokenExpiration)
	require.NoError(t, cfg.validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{}
	cfg.Remote.BaseURL = "http://head-office.local"
	applyDefaults(cfg)
	cfg.Database.Driver = "oracle"

	assert.Error(t, cfg.validate())
}

func TestValidateRequiresRemoteURL(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Error(t, cfg.validate())

	cfg.Remote.BaseURL = "head-office.local"
	assert.Error(t, cfg.validate(), "scheme is required")
}

func TestValidateRequiresSecretInProduction(t *testing.T) {
	cfg := &Config{}
	cfg.Remote.BaseURL = "https://head-office.local"
	applyDefaults(cfg)
	cfg.App.Env = "production"

	assert.Error(t, cfg.validate())

	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.validate())
}

func TestRedisEnabled(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.False(t, cfg.Redis.RedisEnabled())
	cfg.Redis.Host = "localhost"
	assert.True(t, cfg.Redis.RedisEnabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}
