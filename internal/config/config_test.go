package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/unibot/cli/internal/api"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, home, body string, perm os.FileMode) {
	t.Helper()
	cfgDir := filepath.Join(home, ".unibot")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(body), perm))
	require.NoError(t, os.Chmod(filepath.Join(cfgDir, "config"), perm))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	withHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, api.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Default()
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(Dir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := &Config{
		BaseURL:   "https://unibot.example.edu/api",
		Timeout:   30 * time.Second,
		LogLevel:  "debug",
		LogFormat: "console",
		LogFile:   "/tmp/unibot-test.log",
		Theme:     "light",
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveWritesDurationSyntax(t *testing.T) {
	withHome(t)

	cfg := Default()
	cfg.Timeout = 45 * time.Second
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(Path())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "45s", raw["timeout"])
	assert.NotContains(t, raw, "password")
}

func TestSaveConfigOverwritesExisting(t *testing.T) {
	withHome(t)

	cfg1 := Default()
	cfg1.Theme = "light"
	require.NoError(t, cfg1.Save())

	cfg2 := Default()
	cfg2.Theme = "dracula"
	require.NoError(t, cfg2.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dracula", loaded.Theme)
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "", 0600)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.BaseURL)
}

func TestLoadConfigPartialFileKeepsOtherDefaults(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "base_url: http://10.0.0.5:5000/api\ntimeout: 5s\n", 0600)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "invalid: yaml: content:", 0600)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfigRejectsOpenPermissions(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "theme: light\n", 0644)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions too open")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "base_url: http://file.example/api\n", 0600)
	t.Setenv("UNIBOT_BASE_URL", "http://env.example/api")
	t.Setenv("UNIBOT_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.BaseURL = "  "
	assert.ErrorContains(t, cfg.Validate(), "missing base_url")

	cfg.BaseURL = "ftp://unibot"
	assert.ErrorContains(t, cfg.Validate(), "http:// or https://")

	cfg.BaseURL = "http://bad host:99/api"
	assert.ErrorContains(t, cfg.Validate(), "invalid character")

	cfg.BaseURL = "https:///api"
	assert.ErrorContains(t, cfg.Validate(), "no host")

	cfg.BaseURL = "http://localhost:5000/api"
	cfg.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "timeout must be positive")
}

func TestLoadConfigInvalidValueFailsValidation(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "base_url: localhost:5000\n", 0600)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoadFileIgnoresEnvAndSkipsValidation(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "base_url: localhost:5000\n", 0600)
	t.Setenv("UNIBOT_TIMEOUT", "42s")

	cfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", cfg.BaseURL)
	assert.Equal(t, Default().Timeout, cfg.Timeout)
}
