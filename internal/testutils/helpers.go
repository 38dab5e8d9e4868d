// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupFlowRepo writes files (name to content) into a temporary directory and
// initializes a Loam repository over it. It returns the absolute directory.
func SetupFlowRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	WriteFiles(t, dir, files)

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "failed to init loam repo")
	return dir, repo
}

// WriteFiles writes each name to content under dir, creating parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// WriteFlowFile writes a single flow document and returns its path.
func WriteFlowFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, map[string]string{name: content})
	return filepath.Join(dir, name)
}
