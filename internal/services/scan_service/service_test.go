package scan_service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/backup-sanitizer/internal/classifier"
	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/infra/tarcli"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
	"github.com/sunr3d/backup-sanitizer/internal/testutil"
)

func setupTestService(t *testing.T, extractor infra.Extractor) (*scanService, *config.Config) {
	t.Helper()
	logger := zaptest.NewLogger(t)

	cfg := &config.Config{
		TargetDir:         t.TempDir(),
		QuarantineDirName: "quarantine",
		TempDirName:       "temp_extraction",
		ExclusionPatterns: config.DefaultPatterns(),
		ExtractTimeout:    time.Minute,
		Workers:           1,
	}

	if extractor == nil {
		extractor = tarcli.New(logger, "tar", cfg.ExtractTimeout)
	}

	patterns, err := classifier.New(cfg.ExclusionPatterns)
	require.NoError(t, err)

	return New(logger, cfg, extractor, patterns).(*scanService), cfg
}

func requireTempEmpty(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.TempDir())
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries, "рабочая директория должна быть удалена")
}

type failingExtractor struct {
	sawDir bool
}

func (f *failingExtractor) Extract(_ context.Context, _, destDir string) (string, error) {
	if _, err := os.Stat(destDir); err == nil {
		f.sawDir = true
	}
	if err := os.WriteFile(filepath.Join(destDir, "partial"), []byte("x"), 0644); err != nil {
		return "", err
	}
	return "", errors.New("boom")
}

func TestScanService_Analyze_Infected(t *testing.T) {
	testutil.RequireTar(t)
	service, cfg := setupTestService(t, nil)

	archive := filepath.Join(cfg.TargetDir, "app.tar.gz")
	testutil.WriteTarGz(t, archive, map[string]string{
		"app/index.js":                  "main",
		"app/node_modules/lib/index.js": "dep",
		"app/.git/HEAD":                 "ref: refs/heads/main",
	})

	result := service.Analyze(context.Background(), archive)

	require.Empty(t, result.Error)
	assert.Equal(t, "app.tar.gz", result.Name)
	assert.True(t, filepath.IsAbs(result.Path))
	assert.True(t, result.Infected)
	assert.Equal(t, 3, result.TotalFiles)
	assert.ElementsMatch(t, []string{"node_modules/lib/index.js", ".git/HEAD"}, result.InfectedFiles)
	assert.Equal(t, int64(len("main")+len("dep")+len("ref: refs/heads/main")), result.ExtractedSize)

	info, err := os.Stat(archive)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), result.OriginalSize)

	requireTempEmpty(t, cfg)
}

func TestScanService_Analyze_Clean(t *testing.T) {
	testutil.RequireTar(t)
	service, cfg := setupTestService(t, nil)

	archive := filepath.Join(cfg.TargetDir, "site.tar.gz")
	testutil.WriteTarGz(t, archive, map[string]string{
		"site/index.html": "<html/>",
		"site/css/a.css":  "body{}",
	})

	result := service.Analyze(context.Background(), archive)

	require.Empty(t, result.Error)
	assert.False(t, result.Infected)
	assert.Empty(t, result.InfectedFiles)
	assert.Equal(t, 2, result.TotalFiles)
	requireTempEmpty(t, cfg)
}

func TestScanService_Analyze_Corrupt(t *testing.T) {
	testutil.RequireTar(t)
	service, cfg := setupTestService(t, nil)

	archive := filepath.Join(cfg.TargetDir, "broken.tar.gz")
	testutil.WriteCorrupt(t, archive)

	result := service.Analyze(context.Background(), archive)

	assert.NotEmpty(t, result.Error)
	assert.False(t, result.Infected)
	assert.False(t, result.Repairable())
	requireTempEmpty(t, cfg)
}

func TestScanService_Analyze_ExtractorFailureCleansUp(t *testing.T) {
	fake := &failingExtractor{}
	service, cfg := setupTestService(t, fake)

	archive := filepath.Join(cfg.TargetDir, "a.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("x"), 0644))

	result := service.Analyze(context.Background(), archive)

	assert.True(t, fake.sawDir)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, int64(1), result.OriginalSize)
	requireTempEmpty(t, cfg)
}

func TestScanService_Analyze_MissingArchive(t *testing.T) {
	service, cfg := setupTestService(t, &failingExtractor{})

	result := service.Analyze(context.Background(), filepath.Join(cfg.TargetDir, "gone.tar.gz"))

	assert.Contains(t, result.Error, ErrStatFailed.Error())
}

func TestScanService_Analyze_ContextCancelled(t *testing.T) {
	service, cfg := setupTestService(t, &failingExtractor{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := service.Analyze(ctx, filepath.Join(cfg.TargetDir, "a.tar.gz"))

	assert.Contains(t, result.Error, ErrContextDone.Error())
}
