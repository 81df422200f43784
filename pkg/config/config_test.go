package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MOZU_AUTH_BASE_URI", "https://home.mozu.com")
	t.Setenv("MOZU_TENANT_BASE_URI", "https://t1234.sandbox.mozu.com")
	t.Setenv("MOZU_APPLICATION_ID", "app.id")
	t.Setenv("MOZU_SHARED_SECRET", "secret")
	t.Setenv("MOZU_TENANT_ID", "1234")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.TenantID)
	assert.Equal(t, 0, cfg.SiteID)
	assert.Equal(t, 10000*time.Second, cfg.AccessTokenTTL)
	assert.Equal(t, 36000*time.Second, cfg.RefreshTokenTTL)
	assert.Equal(t, 3, cfg.HTTPMaxRetries)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MOZU_SITE_ID", "5678")
	t.Setenv("MOZU_CATALOG_ID", "1")
	t.Setenv("MOZU_MASTER_CATALOG_ID", "2")
	t.Setenv("MOZU_ACCESS_TOKEN_TTL", "60")
	t.Setenv("MOZU_HTTP_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5678, cfg.SiteID)
	assert.Equal(t, 1, cfg.CatalogID)
	assert.Equal(t, 2, cfg.MasterCatalogID)
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 0, cfg.HTTPMaxRetries)
}

func TestLoad_InvalidInteger(t *testing.T) {
	setRequired(t)
	t.Setenv("MOZU_SITE_ID", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOZU_SITE_ID must be an integer")
}

func TestValidate(t *testing.T) {
	valid := Config{
		AuthBaseURI:   "https://home.mozu.com",
		TenantBaseURI: "https://t1.sandbox.mozu.com",
		ApplicationID: "app",
		SharedSecret:  "secret",
		TenantID:      1,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing auth base", mutate: func(c *Config) { c.AuthBaseURI = "" }, wantErr: "MOZU_AUTH_BASE_URI"},
		{name: "missing tenant base", mutate: func(c *Config) { c.TenantBaseURI = "" }, wantErr: "MOZU_TENANT_BASE_URI"},
		{name: "missing application id", mutate: func(c *Config) { c.ApplicationID = "" }, wantErr: "MOZU_APPLICATION_ID"},
		{name: "missing shared secret", mutate: func(c *Config) { c.SharedSecret = "" }, wantErr: "MOZU_SHARED_SECRET"},
		{name: "missing tenant", mutate: func(c *Config) { c.TenantID = 0 }, wantErr: "MOZU_TENANT_ID"},
		{name: "negative retries", mutate: func(c *Config) { c.HTTPMaxRetries = -1 }, wantErr: "MOZU_HTTP_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
