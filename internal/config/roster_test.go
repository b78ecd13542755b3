package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsline/internal/config"
)

func TestLoadRoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	content := `
feeds:
  - slug: ap
    name: Associated Press
    url: https://apnews.com/rss
    category: world
  - slug: bbc
    name: BBC News
    url: https://bbc.co.uk/rss
    category: world
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	roster, err := config.LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "ap", roster[0].Slug)
	assert.Equal(t, "https://apnews.com/rss", roster[0].URL)
}

func TestLoadRoster_MissingFile(t *testing.T) {
	_, err := config.LoadRoster("/nonexistent/roster.yaml")
	assert.Error(t, err)
}
