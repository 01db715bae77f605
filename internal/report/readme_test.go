package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReadme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestUpdateReadme(t *testing.T) {
	t.Run("appends section when missing", func(t *testing.T) {
		path := writeReadme(t, "# PoorStock\n\nSome intro.\n")
		require.NoError(t, UpdateReadme(path, sampleReport()))

		bs, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(bs)
		assert.Contains(t, out, "## Status")
		assert.Contains(t, out, "Update time: 2025-01-15 12:00:00 UTC")
		assert.Contains(t, out, "| Total Stocks | 1,500 |")
		assert.True(t, strings.HasPrefix(out, "# PoorStock"))
	})

	t.Run("replaces existing section, preserves the rest", func(t *testing.T) {
		path := writeReadme(t, "# PoorStock\n\n## Status\nold table\n\n## Usage\nrun it\n")
		require.NoError(t, UpdateReadme(path, sampleReport()))

		bs, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(bs)
		assert.NotContains(t, out, "old table")
		assert.Contains(t, out, "## Usage\nrun it")
		assert.Equal(t, 1, strings.Count(out, "## Status"))
	})

	t.Run("replaces trailing section", func(t *testing.T) {
		path := writeReadme(t, "# PoorStock\n\n## Status\nold table\n")
		require.NoError(t, UpdateReadme(path, sampleReport()))

		bs, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(bs), "old table")
		assert.Contains(t, string(bs), "| Unprocessed | 250 |")
	})

	t.Run("missing README is an error", func(t *testing.T) {
		err := UpdateReadme(filepath.Join(t.TempDir(), "README.md"), sampleReport())
		assert.Error(t, err)
	})
}
