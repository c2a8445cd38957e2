// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSupabaseSettings(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")

	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")
}

func TestLoad_DefaultsAndWhitelist(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("ADMIN_WHITELIST_EMAILS", "Partner@ARCO.law, managing.partner@arco.law , ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 10*time.Second, cfg.SupabaseTimeout)
	assert.Equal(t, []string{"partner@arco.law", "managing.partner@arco.law"}, cfg.AdminWhitelistEmails)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "secret",
		DBName:     "arco_db",
		DBSSLMode:  "disable",
		DBTimezone: "UTC",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=arco_db sslmode=disable TimeZone=UTC",
		cfg.DSN())
}
