package fileindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndSearch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mainframe.txt"), []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte(""), 0o644))

	idx := NewIndex(dir)
	assert.False(t, idx.IsReady())

	idx.Build()
	assert.True(t, idx.IsReady())
	assert.Equal(t, int64(1), idx.Version())
	assert.Equal(t, 2, idx.Count()) // .git is skipped

	results := idx.Search("main", 10)
	assert.NotEmpty(t, results)
}

func TestRefreshBumpsVersion(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex(dir)
	idx.Build()
	v1 := idx.Version()

	idx.Refresh()
	for idx.Version() == v1 {
	}
	assert.Greater(t, idx.Version(), v1)
}
