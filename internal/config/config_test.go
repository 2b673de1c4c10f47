package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/pgaccess/internal/util"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvDatabaseURL, "")
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend.Kind)
	assert.Equal(t, 10, cfg.View.PageSize)
	assert.False(t, cfg.UI.Accessible)
}

func TestLoadBackfillsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\naccessible = true\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.UI.Accessible)
	assert.Equal(t, BackendSQLite, cfg.Backend.Kind)
	assert.Equal(t, 10, cfg.View.PageSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name, body string
	}{
		{"unknown kind", "[backend]\nkind = \"mongo\"\n"},
		{"page size", "[view]\npage_size = 500\n"},
		{"syntax", "[view\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDatabaseURL, "postgres://localhost/admin")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend.Kind, "a database url implies postgres")
	assert.Equal(t, "postgres://localhost/admin", cfg.Backend.URL)

	t.Setenv(EnvBackend, BackendMemory)
	cfg, err = LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend.Kind)
}

func TestPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvConfig, want)
	assert.Equal(t, want, Path())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SetValue("view.page_size", "25"))
	require.NoError(t, cfg.SetValue("backend.path", "/tmp/admin.db"))
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.View.PageSize)
	assert.Equal(t, "/tmp/admin.db", loaded.Backend.Path)
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key, value string
		wantErr    bool
		want       string
	}{
		{"view.page_size", "20", false, "20"},
		{"view.pagesize", "30", false, "30"},
		{"view.page_size", "0", true, ""},
		{"view.page_size", "101", true, ""},
		{"view.page_size", "ten", true, ""},
		{"ui.accessible", "true", false, "true"},
		{"ui.accessible", "maybe", true, ""},
		{"backend.kind", "postgres", false, "postgres"},
		{"backend.kind", "mongo", true, ""},
	}
	for _, tt := range tests {
		err := cfg.SetValue(tt.key, tt.value)
		if tt.wantErr {
			assert.Error(t, err, "%s=%s", tt.key, tt.value)
			// restore a valid state for the next case
			cfg = DefaultConfig()
			continue
		}
		require.NoError(t, err, "%s=%s", tt.key, tt.value)
		got, ok := cfg.GetValue(tt.key)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	err := cfg.SetValue("nope.key", "x")
	assert.ErrorIs(t, err, util.ErrUnknownConfigKey)
	_, ok := cfg.GetValue("nope.key")
	assert.False(t, ok)
}

func TestListKeysAndHelp(t *testing.T) {
	keys := ListKeys()
	assert.Equal(t, []string{
		"backend.kind", "backend.path", "backend.url",
		"ui.accessible", "ui.no_color",
		"view.page_size",
	}, keys)

	help := GenerateHelpText()
	assert.Contains(t, help, "Backend:")
	assert.Contains(t, help, "view.page_size")
	assert.Contains(t, help, "(default: 10)")
}
