package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quicktransfer/internal/api"
	"quicktransfer/internal/config"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/filetype"
	"quicktransfer/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	*testutils.FileServer
	cfg     *config.Config
	cfgPath string
}

// setupCLI starts a file server and writes a config file pointing at it.
func setupCLI(t *testing.T, files map[string]string) *cliEnv {
	t.Helper()
	fs := testutils.NewFileServer(t, "", files)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.SaveConfig(fs.Config, cfgPath))
	return &cliEnv{FileServer: fs, cfg: fs.Config, cfgPath: cfgPath}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "stop", "browse", "ls", "upload", "get", "rm", "drop"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestLsCommand(t *testing.T) {
	env := setupCLI(t, map[string]string{"notes.txt": "hello", "docs/inner.pdf": "pdf"})

	out, err := env.run(t, "", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "docs/")
	assert.Contains(t, out, "5 B")

	out, err = env.run(t, "", "ls", "/docs/")
	require.NoError(t, err)
	assert.Contains(t, out, "/docs")
	assert.Contains(t, out, "inner.pdf")
	assert.NotContains(t, out, "notes.txt")
}

func TestLsMissingFolderFails(t *testing.T) {
	env := setupCLI(t, nil)
	_, err := env.run(t, "", "ls", "nowhere")
	assert.Error(t, err)
}

func TestUploadAndGet(t *testing.T) {
	env := setupCLI(t, nil)
	local := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(local, []byte("quarterly"), 0644))

	out, err := env.run(t, "", "upload", local, "--to", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved docs/report.txt")
	data, err := os.ReadFile(env.Path("docs/report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "quarterly", string(data))

	outDir := t.TempDir()
	out, err = env.run(t, "", "get", "docs/report.txt", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "report.txt"))
	data, err = os.ReadFile(filepath.Join(outDir, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "quarterly", string(data))
}

func TestUploadMissingLocalFile(t *testing.T) {
	env := setupCLI(t, nil)
	_, err := env.run(t, "", "upload", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestRmCommand(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		env := setupCLI(t, map[string]string{"old.log": "x"})

		out, err := env.run(t, "n\n", "rm", "old.log")
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
		assert.FileExists(t, env.Path("old.log"))
	})

	t.Run("confirmed", func(t *testing.T) {
		env := setupCLI(t, map[string]string{"old.log": "x"})

		out, err := env.run(t, "y\n", "rm", "old.log")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted old.log")
		assert.NoFileExists(t, env.Path("old.log"))
		assert.FileExists(t, env.Trashed("old.log"))
	})

	t.Run("stops at first failure", func(t *testing.T) {
		env := setupCLI(t, map[string]string{"a.txt": "a", "c.txt": "c"})

		_, err := env.run(t, "", "rm", "--yes", "a.txt", "missing.txt", "c.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deleted 1 of 3")
		assert.NoFileExists(t, env.Path("a.txt"))
		assert.FileExists(t, env.Path("c.txt"))
	})
}

func TestStopCommand(t *testing.T) {
	env := setupCLI(t, nil)

	out, err := env.run(t, "", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Server is not running")

	require.NoError(t, os.WriteFile(env.cfg.Server.PIDFile, []byte("99999999"), 0644))
	out, err = env.run(t, "", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "stale PID file")
	assert.NoFileExists(t, env.cfg.Server.PIDFile)
}

func TestDropRequiresFolder(t *testing.T) {
	env := setupCLI(t, nil)
	_, err := env.run(t, "", "drop")
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	cfgFile = ""
	cfg = config.NewTestConfig(t.TempDir())
	cmd := newServeCmd()
	dir := t.TempDir()

	require.NoError(t, cmd.Flags().Set("host", "0.0.0.0"))
	require.NoError(t, cmd.Flags().Set("port", "9090"))
	require.NoError(t, cmd.Flags().Set("dir", dir))
	require.NoError(t, cmd.Flags().Set("password", "s3cret"))
	require.NoError(t, applyServeFlags(cmd))

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, dir, cfg.Server.Directory)
	assert.False(t, cfg.Server.Debug)

	assert.Equal(t, []string{
		"serve",
		"--host", "0.0.0.0",
		"--port", "9090",
		"--dir", dir,
		"--password", "s3cret",
	}, backgroundArgs())

	cfgFile = "/etc/qt.yaml"
	cfg.Server.Debug = true
	args := backgroundArgs()
	assert.Contains(t, args, "--debug")
	assert.Contains(t, strings.Join(args, " "), "--config /etc/qt.yaml")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "sure? "))
			assert.Equal(t, "sure? ", out.String())
		})
	}
}

func TestFormatEntry(t *testing.T) {
	size := int64(2048)
	line := formatEntry(api.Entry{Name: "song.mp3", Type: filetype.Audio, Size: &size})
	assert.Contains(t, line, "🎵")
	assert.Contains(t, line, "audio")
	assert.Contains(t, line, "2.0 kB")
	assert.True(t, strings.HasSuffix(line, "song.mp3"))

	line = formatEntry(api.Entry{Name: "docs", Type: filetype.Dir})
	assert.Contains(t, line, " - ")
	assert.True(t, strings.HasSuffix(line, "docs/"))
}
