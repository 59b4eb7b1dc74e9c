package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AUTO_LOGIN_ON_REGISTER", "")
	t.Setenv("LOGIN_RATE_LIMIT", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.True(t, cfg.AutoLoginOnRegister)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Nil(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AUTO_LOGIN_ON_REGISTER", "false")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,192.168.0.0/16 ")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.False(t, cfg.AutoLoginOnRegister)
	assert.Equal(t, 3, cfg.LoginRateLimit)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUTO_LOGIN_ON_REGISTER", "maybe")
	t.Setenv("LOGIN_RATE_LIMIT", "lots")

	cfg := Load()

	assert.True(t, cfg.AutoLoginOnRegister)
	assert.Equal(t, 10, cfg.LoginRateLimit)
}
