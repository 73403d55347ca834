package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIDFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileFilter(t *testing.T) {
	path := writeIDFile(t, "orders\n\n# retired tables\nsessions  \n  events\n")

	filter, err := fileFilter(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "sessions", "events"}, filter.IDs)
}

func TestFileFilter_EmptyFile(t *testing.T) {
	path := writeIDFile(t, "\n# nothing but comments\n")

	_, err := fileFilter(path)
	require.Error(t, err)
}

func TestFileFilter_MissingFile(t *testing.T) {
	_, err := fileFilter(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestTagsFilter(t *testing.T) {
	filter, err := tagsFilter("env=dev,team=web")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "dev", "team": "web"}, filter.Tags)

	_, err = tagsFilter("")
	require.Error(t, err, "an empty tag filter would match everything")
}
