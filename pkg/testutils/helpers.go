// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quicktransfer/internal/config"
	"quicktransfer/internal/server"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates files with specific content under dir. Names may
// contain slashes; missing folders are created.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// FileServer is a file server over a temporary storage folder.
type FileServer struct {
	Config *config.Config
	URL    string
}

// NewFileServer starts a server holding files and stops it when the test
// ends. The client section of Config points at it.
func NewFileServer(t *testing.T, password string, files map[string]string) *FileServer {
	t.Helper()
	cfg := config.NewTestConfig(t.TempDir())
	cfg.Server.Password = password

	srv, err := server.New(cfg)
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	WriteFiles(t, cfg.FilesDir(), files)

	cfg.Client.URL = hs.URL
	cfg.Client.Password = password
	return &FileServer{Config: cfg, URL: hs.URL}
}

// Path returns the local path of a served file.
func (s *FileServer) Path(rel string) string {
	return filepath.Join(s.Config.FilesDir(), filepath.FromSlash(rel))
}

// Trashed returns where a deleted file ends up.
func (s *FileServer) Trashed(rel string) string {
	return filepath.Join(s.Config.DeletedDir(), filepath.FromSlash(rel))
}

// StripANSI removes terminal escape sequences from rendered output.
func StripANSI(str string) string {
	return ansi.Strip(str)
}
