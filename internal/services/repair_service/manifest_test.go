package repair_service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunr3d/backup-sanitizer/models"
)

func TestRenderManifest(t *testing.T) {
	m := models.Manifest{
		OriginalName:  "site.tar.gz",
		CleanedName:   "site_cleaned.tar.gz",
		GeneratedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		OriginalSize:  4096,
		CleanedSize:   1024,
		OriginalFiles: 10,
		RemovedFiles:  7,
		SHA256:        "abc123",
		Patterns:      []string{"node_modules/", "*.log"},
	}

	text := RenderManifest(m)

	assert.Contains(t, text, "# Cleaned Archive Manifest\n")
	assert.Contains(t, text, "Generated: 2025-01-02T03:04:05Z")
	assert.Contains(t, text, "- Original Size: 4.0 KiB (4096 bytes)")
	assert.Contains(t, text, "- Cleaned Size: 1.0 KiB (1024 bytes)")
	assert.Contains(t, text, "- Size Reduction: 3.0 KiB (75.00%)")
	assert.Contains(t, text, "- Original Files: 10")
	assert.Contains(t, text, "- Infected Files Removed: 7")
	assert.Contains(t, text, "- SHA256: abc123")
	assert.Contains(t, text, "## Excluded Patterns\n- node_modules/\n- *.log\n")
}

func TestRenderManifest_Growth(t *testing.T) {
	text := RenderManifest(models.Manifest{OriginalSize: 100, CleanedSize: 150})

	assert.Contains(t, text, "- Size Reduction: -50 B (-50.00%)")
}

func TestWriteManifest_WriteOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.txt")

	require.NoError(t, writeManifest(path, models.Manifest{OriginalName: "a"}))
	err := writeManifest(path, models.Manifest{OriginalName: "b"})

	assert.ErrorIs(t, err, ErrManifest)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Original: a")
}
