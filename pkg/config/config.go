package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAccessTokenTTL  = 10000 * time.Second
	defaultRefreshTokenTTL = 36000 * time.Second
	defaultMaxRetries      = 3
)

type Config struct {
	AuthBaseURI     string
	TenantBaseURI   string
	ApplicationID   string
	SharedSecret    string
	TenantID        int
	SiteID          int
	CatalogID       int
	MasterCatalogID int

	// AccessTokenTTL and RefreshTokenTTL cap how long an issued ticket is trusted locally.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	HTTPMaxRetries int
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		AuthBaseURI:   os.Getenv("MOZU_AUTH_BASE_URI"),
		TenantBaseURI: os.Getenv("MOZU_TENANT_BASE_URI"),
		ApplicationID: os.Getenv("MOZU_APPLICATION_ID"),
		SharedSecret:  os.Getenv("MOZU_SHARED_SECRET"),
	}

	var err error
	if cfg.TenantID, err = getInt("MOZU_TENANT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.SiteID, err = getInt("MOZU_SITE_ID", 0); err != nil {
		return nil, err
	}
	if cfg.CatalogID, err = getInt("MOZU_CATALOG_ID", 0); err != nil {
		return nil, err
	}
	if cfg.MasterCatalogID, err = getInt("MOZU_MASTER_CATALOG_ID", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPMaxRetries, err = getInt("MOZU_HTTP_MAX_RETRIES", defaultMaxRetries); err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL, err = getSeconds("MOZU_ACCESS_TOKEN_TTL", defaultAccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getSeconds("MOZU_REFRESH_TOKEN_TTL", defaultRefreshTokenTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AuthBaseURI == "" {
		return fmt.Errorf("MOZU_AUTH_BASE_URI is required")
	}
	if c.TenantBaseURI == "" {
		return fmt.Errorf("MOZU_TENANT_BASE_URI is required")
	}
	if c.ApplicationID == "" {
		return fmt.Errorf("MOZU_APPLICATION_ID is required")
	}
	if c.SharedSecret == "" {
		return fmt.Errorf("MOZU_SHARED_SECRET is required")
	}
	if c.TenantID <= 0 {
		return fmt.Errorf("MOZU_TENANT_ID is required")
	}
	// Site and catalog scoping are optional; tenant-level calls work without them.
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("MOZU_HTTP_MAX_RETRIES must not be negative")
	}
	return nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getSeconds(key string, defaultValue time.Duration) (time.Duration, error) {
	secs, err := getInt(key, -1)
	if err != nil {
		return 0, err
	}
	if secs < 0 {
		return defaultValue, nil
	}
	return time.Duration(secs) * time.Second, nil
}
