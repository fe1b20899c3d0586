package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/sampleviewer/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	s := prefs.NewStore("/home/me/.cache/sampleviewer")
	assert.Equal(t, filepath.FromSlash("/home/me/.cache/sampleviewer/AssetLoadTest/sidebar.toml"),
		s.ResolvePath("@user@/AssetLoadTest/sidebar.toml"))
	assert.Equal(t, filepath.FromSlash("relative/file.toml"), s.ResolvePath("relative/file.toml"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := prefs.NewStore(t.TempDir())

	var sidebar prefs.SidebarPrefs
	found, err := s.Load("@user@/AssetLoadTest/sidebar.toml", &sidebar)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save("@user@/AssetLoadTest/sidebar.toml", prefs.SidebarPrefs{Open: true}))
	require.NoError(t, s.Save("@user@/AssetLoadTest/model_browser.toml", prefs.AllowListPrefs{
		Pinned: []string{"objects/bunny.azmodel", "objects/suzanne.azmodel"},
	}))

	found, err = s.Load("@user@/AssetLoadTest/sidebar.toml", &sidebar)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, sidebar.Open)

	var models prefs.AllowListPrefs
	_, err = s.Load("@user@/AssetLoadTest/model_browser.toml", &models)
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/bunny.azmodel", "objects/suzanne.azmodel"}, models.Pinned)
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	s := prefs.NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("open = [unterminated"), 0o644))

	var sidebar prefs.SidebarPrefs
	_, err := s.Load("@user@/bad.toml", &sidebar)
	assert.Error(t, err)
}
