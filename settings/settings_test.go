package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/instafader/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadPartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
verbose = true
last_folder = "/skins/mine"

[suggest]
method = "kmeans"
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.Verbose)
	assert.Equal(t, "/skins/mine", s.LastFolder)
	assert.Equal(t, 195, s.PreviewSize)
	assert.Equal(t, "cursor", s.Suggest.Element)
	assert.Equal(t, 4, s.Suggest.Count)
	assert.Equal(t, utils.PaletteMethodKMeans, s.PaletteMethod())
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("preview_size = -3\n[suggest]\nmethod = \"bogus\"\ncount = 0\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 195, s.PreviewSize)
	assert.Equal(t, 4, s.Suggest.Count)
	assert.Equal(t, "dominantcolor", s.Suggest.Method)
}

func TestLoadUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("colour = 1\n[suggest]\nsize = 2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
	assert.Contains(t, err.Error(), "suggest.size")
}

func TestLoadUnknownKeysStillNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("preview_size = 0\nextra = true\n[suggest]\ncount = 0\n"), 0o644))

	s, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, 195, s.PreviewSize)
	assert.Equal(t, 4, s.Suggest.Count)
	assert.Equal(t, "cursor", s.Suggest.Element)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("verbose = = true\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := Default()
	want.LastFolder = `C:\osu!\Skins\Mine`
	want.Suggest.Count = 6

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("HOME", "/tmp/home")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "settings.toml", filepath.Base(p))
	assert.Equal(t, "instafader", filepath.Base(filepath.Dir(p)))
}
