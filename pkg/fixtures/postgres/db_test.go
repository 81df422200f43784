package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "mozu_toolkit", cfg.Database)
	assert.Equal(t, "postgres://postgres:@localhost:5432/mozu_toolkit?sslmode=disable", cfg.DSN())
}

func TestConfig_DSNEscapesCredentials(t *testing.T) {
	cfg := &Config{
		Host:     "db.internal",
		Port:     6543,
		User:     "toolkit",
		Password: `p@ss word'"/?#`,
		Database: "fixtures",
		SSLMode:  "require",
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), poolCfg.ConnConfig.Port)
	assert.Equal(t, "toolkit", poolCfg.ConnConfig.User)
	assert.Equal(t, `p@ss word'"/?#`, poolCfg.ConnConfig.Password)
	assert.Equal(t, "fixtures", poolCfg.ConnConfig.Database)
}

func TestNewConfig_InvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "five")
	_, err := NewConfig()
	assert.ErrorContains(t, err, "DB_PORT")
}
