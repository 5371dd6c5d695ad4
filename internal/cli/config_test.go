package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/arc-language/pkgrecipe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T, path string, cfg *core.Config) {
	t.Helper()
	oldFile, oldCfg, oldForce := cfgFile, config, configInitForce
	t.Cleanup(func() { cfgFile, config, configInitForce = oldFile, oldCfg, oldForce })
	cfgFile, config, configInitForce = path, cfg, false
}

func TestConfigInit_WritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgrecipe", "config.yaml")
	cfg := core.DefaultConfig()
	cfg.Version = "master"
	cfg.Jobs = 6
	withConfig(t, path, cfg)

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	t.Cleanup(func() { configInitCmd.SetOut(nil) })

	require.NoError(t, runConfigInit(configInitCmd, nil))
	assert.Contains(t, out.String(), "✓ Wrote "+path)

	loaded, err := core.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "master", loaded.Version)
	assert.Equal(t, 6, loaded.Jobs)
}

func TestConfigInit_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	withConfig(t, path, core.DefaultConfig())
	configInitCmd.SetOut(&bytes.Buffer{})
	t.Cleanup(func() { configInitCmd.SetOut(nil) })

	require.NoError(t, runConfigInit(configInitCmd, nil))
	err := runConfigInit(configInitCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	configInitForce = true
	assert.NoError(t, runConfigInit(configInitCmd, nil))
}

func TestDescriptorFromFlags_HostDefault(t *testing.T) {
	d, err := descriptorFromFlags(rootCmd)
	if err != nil {
		t.Skipf("host has no default descriptor: %v", err)
	}
	assert.NoError(t, d.Validate())
}
