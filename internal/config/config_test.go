package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		DBPath:    "gearbox.sqlite3",
		Addr:      ":8080",
		UploadDir: "uploads",
	}, cfg)
}

func TestLoadEnvironment(t *testing.T) {
	cfg, err := Load(nil, envMap(map[string]string{
		"GEARBOX_DB":         "/var/lib/gearbox/db.sqlite3",
		"GEARBOX_ADDR":       "127.0.0.1:9000",
		"GEARBOX_UPLOADS":    "/srv/uploads",
		"GEARBOX_LOG":        "/var/log/gearbox.log",
		"GEARBOX_JWT_SECRET": "s3cret",
	}), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/gearbox/db.sqlite3", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "/srv/uploads", cfg.UploadDir)
	assert.Equal(t, "/var/log/gearbox.log", cfg.LogPath)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := Load(
		[]string{"-d", "flag.sqlite3", "-addr", ":9999", "-u", "pics", "-jwt-secret", "fromflag"},
		envMap(map[string]string{"GEARBOX_DB": "env.sqlite3", "GEARBOX_JWT_SECRET": "fromenv"}),
		io.Discard,
	)
	require.NoError(t, err)

	assert.Equal(t, "flag.sqlite3", cfg.DBPath)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "pics", cfg.UploadDir)
	assert.Equal(t, "fromflag", cfg.JWTSecret)
}

func TestLoadHelp(t *testing.T) {
	var out strings.Builder
	_, err := Load([]string{"-h"}, envMap(nil), &out)
	assert.True(t, errors.Is(err, flag.ErrHelp))
	assert.Contains(t, out.String(), "Usage: gearbox")
}

func TestLoadRejectsPositionalArgs(t *testing.T) {
	_, err := Load([]string{"serve"}, envMap(nil), io.Discard)
	assert.Error(t, err)
}
