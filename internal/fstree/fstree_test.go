package fstree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.js":                  "a",
		"node_modules/lib/index.js": "bb",
		".git/HEAD":                 "ccc",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "dir"), 0755))

	files, err := ListFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{".git/HEAD", "index.js", "node_modules/lib/index.js"}, files)
}

func TestListFiles_Empty(t *testing.T) {
	files, err := ListFiles(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFiles_Missing(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, ErrEnumeration)
}

func TestListFiles_DeepNesting(t *testing.T) {
	root := t.TempDir()
	parts := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		parts = append(parts, "d")
	}
	deep := strings.Join(parts, "/") + "/leaf.txt"
	writeTree(t, root, map[string]string{deep: "x"})

	files, err := ListFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{deep}, files)
}

func TestTotalSize(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":     "12345",
		"sub/b.txt": "123",
		"sub/c/d":   "1",
	})

	size, err := TotalSize(root)

	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
}

func TestTotalSize_Empty(t *testing.T) {
	size, err := TotalSize(t.TempDir())

	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestCopyFiltered(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{
		"index.js":                  "keep",
		"src/app.js":                "keep too",
		"node_modules/lib/index.js": "drop",
		"debug.log":                 "drop",
	})

	skip := func(rel string) bool {
		return strings.HasPrefix(rel, "node_modules") || strings.HasSuffix(rel, ".log")
	}

	copied, err := CopyFiltered(src, dst, skip)

	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	files, err := ListFiles(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.js", "src/app.js"}, files)

	data, err := os.ReadFile(filepath.Join(dst, "src", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "keep too", string(data))

	_, err = os.Stat(filepath.Join(dst, "node_modules"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(src, "node_modules", "lib", "index.js"))
	assert.NoError(t, err, "source tree must stay untouched")
}

func TestCopyFiltered_PreservesModTime(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "x"})

	srcInfo, err := os.Stat(filepath.Join(src, "a.txt"))
	require.NoError(t, err)

	_, err = CopyFiltered(src, dst, func(string) bool { return false })
	require.NoError(t, err)

	dstInfo, err := os.Stat(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()))
}

func TestCopyFiltered_MatchedDirectoryKeepsCleanFiles(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{
		"index.js":            "keep",
		"reports.log/summary": "keep, only the directory name matches",
		"reports.log/run.log": "drop",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(src, "cache.log"), 0755))

	skip := func(rel string) bool { return strings.HasSuffix(rel, ".log") }

	copied, err := CopyFiltered(src, dst, skip)
	require.NoError(t, err)

	files, err := ListFiles(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.js", "reports.log/summary"}, files)
	assert.Equal(t, 2, copied)

	_, err = os.Stat(filepath.Join(dst, "cache.log"))
	assert.True(t, os.IsNotExist(err), "пустая совпавшая директория не создается")
}

func TestCopyFiltered_CopiedMatchesUnskippedFiles(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":          "1",
		"dist.tmp/b.txt": "2",
		"dist.tmp/c.tmp": "3",
		"x/y/z.tmp":      "4",
	})
	skip := func(rel string) bool { return strings.HasSuffix(rel, ".tmp") }

	all, err := ListFiles(src)
	require.NoError(t, err)
	skipped := 0
	for _, f := range all {
		if skip(f) {
			skipped++
		}
	}

	copied, err := CopyFiltered(src, filepath.Join(t.TempDir(), "out"), skip)

	require.NoError(t, err)
	assert.Equal(t, len(all)-skipped, copied)
}
