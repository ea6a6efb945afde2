// Package tarcli extracts gzip-compressed tarballs with the system tar binary.
package tarcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
)

var _ infra.Extractor = (*tarExtractor)(nil)

const waitDelay = 2 * time.Second

type tarExtractor struct {
	logger  *zap.Logger
	binary  string
	timeout time.Duration
}

// New returns an extractor running binary. A zero timeout disables the bound.
func New(log *zap.Logger, binary string, timeout time.Duration) infra.Extractor {
	if binary == "" {
		binary = "tar"
	}
	return &tarExtractor{
		logger:  log,
		binary:  binary,
		timeout: timeout,
	}
}

func (e *tarExtractor) Extract(ctx context.Context, archivePath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %w: %v", ErrExtraction, ErrMkdirFailed, err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, "-xzf", archivePath, "-C", destDir)
	cmd.Stderr = &stderr
	// Children of a killed tar may keep stderr open.
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w: %s", ErrExtraction, ErrTimeout, e.timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: %s", ErrExtraction, msg)
	}

	root, err := locateRoot(destDir)
	if err != nil {
		return "", err
	}

	e.logger.Debug("архив распакован",
		zap.String("archive", filepath.Base(archivePath)),
		zap.String("root", root),
		zap.Duration("elapsed", time.Since(start)),
	)

	return root, nil
}

// locateRoot picks the single top-level directory when the archive has one,
// otherwise destDir itself holds the tree.
func locateRoot(destDir string) (string, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %w", ErrExtraction, ErrNoRoot)
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(destDir, entries[0].Name()), nil
	}

	return destDir, nil
}
