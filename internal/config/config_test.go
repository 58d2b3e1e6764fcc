package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"quicktransfer/internal/config"
	"quicktransfer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
server:
  port: 9090
  directory: "/srv/quicktransfer"
  password: "hunter2"
client:
  url: "http://files.local:9090"
  player: "mpv"
drop:
  directory: "/home/test/drop"
  target: "inbox"
theme:
  name: dark
`
	invalidSyntaxYAML = `
server:
  port: "9090
`
	invalidPortYAML = `
server:
  port: 70000
`
	invalidURLYAML = `
client:
  url: "not a url"
`
	dropTargetOnlyYAML = `
drop:
  target: "inbox"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "/srv/quicktransfer", cfg.Server.Directory)
		assert.Equal(t, "hunter2", cfg.Server.Password)
		assert.Equal(t, "http://files.local:9090", cfg.Client.URL)
		assert.Equal(t, "mpv", cfg.Client.Player)
		assert.Equal(t, "inbox", cfg.Drop.Target)
		assert.Equal(t, "dark", cfg.Theme.Name)

		// Unset values keep their defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.NotEmpty(t, cfg.Client.DownloadDir)
		assert.Equal(t, filepath.Join("/srv/quicktransfer", "files"), cfg.FilesDir())
		assert.Equal(t, filepath.Join("/srv/quicktransfer", "deleted"), cfg.DeletedDir())
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "http://127.0.0.1:8080", cfg.Client.URL)
		assert.Equal(t, "default", cfg.Theme.Name)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
	})

	t.Run("port out of range", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidPortYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
		assert.Contains(t, err.Error(), "Port")
	})

	t.Run("bad client url", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidURLYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "URL")
	})

	t.Run("drop target without directory", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, dropTargetOnlyYAML))
		require.Error(t, err)
		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "drop.target", ce.Param())
	})
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := config.NewTestConfig(dir)
	cfg.Server.Port = 9999
	cfg.Client.Player = "vlc"
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, "vlc", loaded.Client.Player)
	assert.Equal(t, dir, loaded.Server.Directory)
}

func TestValidate(t *testing.T) {
	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())

	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Theme.Name = "neon"
	assert.Error(t, cfg.Validate())

	cfg = config.New()
	cfg.Server.Directory = ""
	assert.Error(t, cfg.Validate())
}
