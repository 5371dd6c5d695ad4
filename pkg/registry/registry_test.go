package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "package")
	r := New(dir)

	entry := &Entry{
		Name:    "portaudio",
		Version: "v190600.20161030",
		Libs:    []string{"portaudio", "jack", "asound", "m", "pthread"},
		Settings: map[string]string{
			"os":     "Linux",
			"shared": "false",
		},
		Files: []string{"include/portaudio.h", "lib/libportaudio.a"},
	}
	require.NoError(t, r.Save(entry))
	assert.FileExists(t, filepath.Join(dir, IndexFile))

	loaded, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, entry, loaded)
}

func TestSave_KeepsFrameworkFlags(t *testing.T) {
	r := New(t.TempDir())
	require.NoError(t, r.Save(&Entry{
		Name:         "portaudio",
		Libs:         []string{"portaudio"},
		ExeLinkFlags: []string{"-framework CoreAudio", "-framework AudioToolbox"},
	}))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"-framework CoreAudio"`)
}

func TestSave_Validation(t *testing.T) {
	r := New(t.TempDir())
	assert.Error(t, r.Save(nil))
	assert.Error(t, r.Save(&Entry{Libs: []string{"x"}}))
	assert.Error(t, r.Save(&Entry{Name: "portaudio"}))
}

func TestLoad_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	dir := t.TempDir()
	_, err = New(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing index.toml")

	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("name = "), 0644))
	_, err = New(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
