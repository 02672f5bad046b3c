package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.True(t, cfg.Server.RateLimit.Enabled)
	require.Equal(t, 25, cfg.Server.RateLimit.MaxRequests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "oidc", cfg.Auth.Mode)
	require.Equal(t, "https://id.example.com", cfg.Auth.OIDC.Issuer)
	require.Equal(t, "hackmatch-api", cfg.Auth.OIDC.Audience)
	require.Equal(t, 5*time.Second, cfg.Auth.OIDC.Timeout)

	require.False(t, cfg.Maintenance.Enabled)
	require.Equal(t, 72*time.Hour, cfg.Maintenance.Retention)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "jwt", cfg.Auth.Mode)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "0 * * * *", cfg.Maintenance.Schedule)
	require.Equal(t, 336*time.Hour, cfg.Maintenance.Retention)
}

func TestResolveDatabasePostgres(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	dbCfg := cfg.ResolveDatabase()
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db.example.com", dbCfg.Host)
	require.Equal(t, 5433, dbCfg.Port)
	require.Equal(t, "hackmatch", dbCfg.Name)
	require.Equal(t, "hackmatch", dbCfg.User)
	require.Equal(t, "s3cret", dbCfg.Password)
}
