package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WriteTables(t *testing.T) {
	dir := t.TempDir()
	fetched := time.Date(2024, 7, 11, 5, 0, 0, 0, time.UTC)
	tables := ProcessFeed(fixtureFeed, fetched, MedianOffsetCorrector{})

	require.NoError(t, WriteTables(tables, dir))

	for name, header := range map[string]string{
		"status.csv":      "batch,timestamp,received",
		"rga.csv":         "batch,timestamp,mass",
		"turbo.csv":       "batch,timestamp,speed_hz",
		"temperature.csv": "batch,timestamp,housing_temp",
		"velocity.csv":    "batch,timestamp,seq",
	} {
		buf, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		lines := strings.Split(strings.TrimSpace(string(buf)), "\r\n")
		assert.True(t, strings.HasPrefix(lines[0], header), name)
		assert.Greater(t, len(lines), 1, "%s should carry data rows", name)
	}

	// Row counts match the cleaned tables exactly
	buf, _ := os.ReadFile(filepath.Join(dir, "velocity.csv"))
	lines := strings.Split(strings.TrimSpace(string(buf)), "\r\n")
	assert.Len(t, lines, 1+len(tables.ADV))
}

func Test_PublishReport(t *testing.T) {
	dir := t.TempDir()
	fetched := time.Date(2024, 7, 11, 5, 0, 0, 0, time.UTC)
	tables := ProcessFeed(fixtureFeed, fetched, MedianOffsetCorrector{})

	cfg := &ServiceConfig{
		PublishDir:     dir,
		ArchivePattern: "gems-%Y-%m-%d-%H.html",
	}
	page, err := PublishReport(tables, cfg, DefaultRenderConfig("GEMS"), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), page)

	buf, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(buf), "deadbeef")

	// Archive copy alongside the index
	matches, err := filepath.Glob(filepath.Join(dir, "gems-*.html"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// No leftover temp files
	tmps, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, tmps)
}

func Test_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gems.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://gems.example.org/cgi-bin/feed\n"+
			"start_date: 2024-07-01T00:00:00Z\n"+
			"publish_dir: /var/www/gems\n"), 0666))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://gems.example.org/cgi-bin/feed", cfg.BaseURL)
	assert.Equal(t, "gems-%Y-%m-%d-%H.html", cfg.ArchivePattern) // default

	start, err := cfg.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), start)
}

func Test_LoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func Test_LoadConfig_RequiredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gems.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_date: 2024-07-01T00:00:00Z\n"), 0666))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
