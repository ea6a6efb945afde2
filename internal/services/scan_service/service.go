package scan_service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/classifier"
	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/fstree"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/services"
	"github.com/sunr3d/backup-sanitizer/models"
)

var _ services.ScanService = (*scanService)(nil)

type scanService struct {
	logger    *zap.Logger
	cfg       *config.Config
	extractor infra.Extractor
	patterns  *classifier.Set
}

func New(log *zap.Logger, cfg *config.Config, extractor infra.Extractor, patterns *classifier.Set) services.ScanService {
	return &scanService{
		logger:    log,
		cfg:       cfg,
		extractor: extractor,
		patterns:  patterns,
	}
}

// Analyze never fails: every error ends up in result.Error so the caller can
// move on to the next archive. The working directory is gone on return.
func (s *scanService) Analyze(ctx context.Context, archivePath string) *models.ArchiveScanResult {
	result := &models.ArchiveScanResult{
		Name:          filepath.Base(archivePath),
		Path:          archivePath,
		InfectedFiles: []string{},
		ScannedAt:     time.Now(),
	}
	if abs, err := filepath.Abs(archivePath); err == nil {
		result.Path = abs
	}

	log := s.logger.With(zap.String("archive", result.Name))
	log.Info("анализ архива")

	if err := s.inspect(ctx, result); err != nil {
		result.Error = err.Error()
		log.Error("ошибка анализа архива", zap.Error(err))
		return result
	}

	if result.Infected {
		log.Warn("архив заражен",
			zap.Int("infected_files", len(result.InfectedFiles)),
			zap.Int("total_files", result.TotalFiles),
		)
		for _, f := range result.InfectedFiles {
			log.Debug("лишний файл", zap.String("path", f))
		}
	} else {
		log.Info("архив чист", zap.Int("total_files", result.TotalFiles))
	}

	return result
}

func (s *scanService) inspect(ctx context.Context, result *models.ArchiveScanResult) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	info, err := os.Stat(result.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatFailed, err)
	}
	result.OriginalSize = info.Size()

	workDir := filepath.Join(s.cfg.TempDir(), "scan-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}
	defer s.cleanupTemp(workDir)

	root, err := s.extractor.Extract(ctx, result.Path, workDir)
	if err != nil {
		return err
	}

	files, err := fstree.ListFiles(root)
	if err != nil {
		return err
	}
	result.TotalFiles = len(files)
	result.InfectedFiles = s.patterns.Filter(files)
	result.Infected = len(result.InfectedFiles) > 0

	size, err := fstree.TotalSize(root)
	if err != nil {
		return err
	}
	result.ExtractedSize = size

	return nil
}

func (s *scanService) cleanupTemp(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Error("не удалось очистить временные файлы",
			zap.String("path", dir),
			zap.Error(fmt.Errorf("%w: %v", ErrRemoveFailed, err)),
		)
	}
}
