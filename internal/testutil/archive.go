// Package testutil builds and inspects tar.gz fixtures for tests.
package testutil

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"os/exec"
	"path"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// WriteTarGz writes files (slash paths to contents) into a tar.gz at archivePath,
// emitting parent directory headers the way tar(1) would.
func WriteTarGz(t testing.TB, archivePath string, files map[string]string) {
	t.Helper()

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	for _, name := range names {
		for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if seen[dir] {
				continue
			}
			seen[dir] = true
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	for _, d := range dirs {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeDir,
			Name:     d + "/",
			Mode:     0755,
			ModTime:  fixtureTime,
		}))
	}

	for _, name := range names {
		body := files[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     name,
			Mode:     0644,
			Size:     int64(len(body)),
			ModTime:  fixtureTime,
		}))
		_, err := io.WriteString(tw, body)
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

// WriteCorrupt writes bytes that no tar implementation will accept.
func WriteCorrupt(t testing.TB, archivePath string) {
	t.Helper()
	require.NoError(t, os.WriteFile(archivePath, []byte("definitely not a gzip stream"), 0644))
}

// ReadTarGz returns the regular files of a tar.gz keyed by their entry name
// with any leading "./" removed.
func ReadTarGz(t testing.TB, archivePath string) map[string]string {
	t.Helper()

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	out := make(map[string]string)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[strings.TrimPrefix(hdr.Name, "./")] = string(data)
	}
	return out
}

// RequireTar skips the test when the tar binary is unavailable.
func RequireTar(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar не найден в PATH")
	}
}
