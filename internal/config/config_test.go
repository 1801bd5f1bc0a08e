package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "NEW ERA", cfg.App.HouseBrand)
	assert.Equal(t, 5, cfg.App.BatchWorkers)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 300, cfg.Cache.DashboardTTLSeconds)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_HOUSE_BRAND", "OTHER")
	t.Setenv("APP_BATCH_WORKERS", "2")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("STORAGE_DRIVER", "s3")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.Equal(t, "OTHER", cfg.App.HouseBrand)
	assert.Equal(t, 2, cfg.App.BatchWorkers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "s3", cfg.Storage.Driver)
}
