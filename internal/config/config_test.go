package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/ward-roster/internal/virtual"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(configPathEnv, "")

	cfg, err := Load()
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(configPathEnv, "")

	cfg := Default()
	cfg.FixedRowHeight = 2
	cfg.Overscan = 1
	cfg.GlamourStyle = " Light "
	cfg.Keybindings = map[string]string{"roster.cursor.down": "n"}
	require.NoError(t, Save(cfg))

	exists, err := Exists()
	require.NoError(t, err)
	require.True(t, exists, "expected config file to exist")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.FixedRowHeight)
	assert.Equal(t, 1, loaded.Overscan)
	assert.Equal(t, "light", loaded.GlamourStyle)
	assert.Equal(t, "n", loaded.Keybindings["roster.cursor.down"])

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ward-roster", "config.json"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigPathHonorsEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(configPathEnv, path)

	got, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestParseAcceptsJSONCAndKeepsDefaults(t *testing.T) {
	data := []byte(`{
		// measured rows with a small overscan band
		"overscan": 0,
		"page_size": 25, // trailing comma below
	}`)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Overscan)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, Default().EstimatedRowHeight, cfg.EstimatedRowHeight)
	assert.Equal(t, Default().PatientCount, cfg.PatientCount)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "negative overscan", data: `{"overscan": -1}`},
		{name: "zero estimate", data: `{"estimated_row_height": 0}`},
		{name: "zero page size", data: `{"page_size": 0}`},
		{name: "bad style", data: `{"glamour_style": "neon"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsUnknownFieldsAndBadSyntax(t *testing.T) {
	_, err := Parse([]byte(`{"notes_dir": "~/notes"}`))
	require.Error(t, err)

	_, err = Parse([]byte(`{"overscan": `))
	require.Error(t, err)
}

func TestListConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.FixedRowHeight = 4
	got := cfg.List()
	assert.Equal(t, virtual.Config{
		FixedItemHeight:     4,
		EstimatedItemHeight: 3,
		Overscan:            4,
		EndThreshold:        10,
		DedupeEndReached:    true,
	}, got)
	require.NoError(t, Default().Validate())
}

func TestSaveFileRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.PageSize = -3
	require.ErrorIs(t, SaveFile(path, cfg), ErrInvalid)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid config must not be written")
}
