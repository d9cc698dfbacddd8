package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CK3thou/youtube-transcripts/internal/config"
	"github.com/CK3thou/youtube-transcripts/internal/store"
	"github.com/CK3thou/youtube-transcripts/types"
)

func TestOpenArchiveNone(t *testing.T) {
	cfg := config.Default()
	p, closeFn, err := OpenArchive(context.Background(), cfg, Targets{})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, closeFn())
}

func TestOpenArchiveFilesAndSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.SQLitePath = filepath.Join(dir, "db", "archive.db")

	ctx := context.Background()
	p, closeFn, err := OpenArchive(ctx, cfg, TargetsFor(cfg))
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	multi, ok := p.(store.Multi)
	require.True(t, ok, "expected a fan-out persister, got %T", p)
	assert.Len(t, multi, 2)

	names, err := store.SaveAll(ctx, p, []types.TranscriptResult{
		types.Succeeded(types.VideoInfo{ID: "abc", Title: "Hello"}, "hi there"),
	})
	require.NoError(t, err)
	require.Len(t, names, 1)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "01_Hello.txt"))
	assert.NoError(t, err)
}

func TestTargetsFor(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = ""
	cfg.S3Bucket = "bucket"
	assert.Equal(t, Targets{S3: true}, TargetsFor(cfg))
}

func TestNewClient(t *testing.T) {
	c, closeFn := NewClient(context.Background(), config.Default())
	require.NotNil(t, c)
	assert.NoError(t, closeFn())
}
