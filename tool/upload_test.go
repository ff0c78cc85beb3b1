package tool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolFileNumbersDuplicates(t *testing.T) {
	dir := t.TempDir()

	first, n, err := SpoolFile(context.Background(), dir, "a.zip", strings.NewReader("PK1"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, filepath.Join(dir, "a.zip"), first)

	second, _, err := SpoolFile(context.Background(), dir, "a.zip", strings.NewReader("PK2"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a-2.zip"), second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "PK2", string(data))
}

func TestSpoolFileCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := SpoolFile(ctx, dir, "a.zip", strings.NewReader("PK"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "a.zip"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestResolveLocalPath(t *testing.T) {
	p, err := ResolveLocalPath("file:///tmp/a.zip")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.zip", p)

	_, err = ResolveLocalPath("https://x/a.zip")
	assert.Error(t, err)
	_, err = ResolveLocalPath("")
	assert.Error(t, err)
	assert.Equal(t, "application/zip", DetectFileType("A.ZIP"))
}
