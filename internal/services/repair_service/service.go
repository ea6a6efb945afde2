package repair_service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/classifier"
	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/fstree"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/services"
	"github.com/sunr3d/backup-sanitizer/models"
)

var _ services.RepairService = (*repairService)(nil)

type repairService struct {
	logger    *zap.Logger
	cfg       *config.Config
	extractor infra.Extractor
	patterns  *classifier.Set
	now       func() time.Time

	// beforeQuarantine runs after the manifest is written; tests use it to
	// fail the last step.
	beforeQuarantine func() error
}

func New(log *zap.Logger, cfg *config.Config, extractor infra.Extractor, patterns *classifier.Set) services.RepairService {
	return &repairService{
		logger:    log,
		cfg:       cfg,
		extractor: extractor,
		patterns:  patterns,
		now:       time.Now,
	}
}

// ArchiveBase strips the archive extension: "site.tar.gz" -> "site".
func ArchiveBase(name string) string {
	for _, ext := range []string{".tar.gz", ".tgz"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CleanedPaths returns where the cleaned archive and its manifest are written.
// Both keep the original extension so "x.tar.gz" and "x.tgz" never share
// outputs: x_cleaned.tar.gz + x_cleaned_manifest.txt, and
// x_cleaned.tgz + x_cleaned_tgz_manifest.txt.
func CleanedPaths(archivePath string) (cleaned, manifest string) {
	dir := filepath.Dir(archivePath)
	name := filepath.Base(archivePath)
	base := ArchiveBase(name)
	ext := name[len(base):]

	stem := base + config.CleanedSuffix
	manifestStem := stem
	if ext != ".tar.gz" && ext != "" {
		manifestStem += "_" + strings.ReplaceAll(strings.TrimPrefix(ext, "."), ".", "_")
	}
	return filepath.Join(dir, stem+ext), filepath.Join(dir, manifestStem+"_manifest.txt")
}

// Repair builds a cleaned copy of an infected archive, writes its manifest and
// moves the original into quarantine. On any error the original stays where
// it was and no cleaned archive or manifest is left behind.
func (s *repairService) Repair(ctx context.Context, result *models.ArchiveScanResult) (*models.CleanedArchiveRecord, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if result == nil || !result.Repairable() {
		return nil, ErrNotRepairable
	}

	log := s.logger.With(zap.String("archive", result.Name))
	log.Info("очистка архива")

	taskDir := filepath.Join(s.cfg.TempDir(), "repair-"+uuid.New().String())
	extractDir := filepath.Join(taskDir, "extracted")
	cleanDir := filepath.Join(taskDir, "cleaned")
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}
	defer s.cleanupTemp(extractDir, cleanDir, taskDir)

	cleanedPath, manifestPath := CleanedPaths(result.Path)
	for _, p := range []string{cleanedPath, manifestPath} {
		if _, err := os.Lstat(p); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, filepath.Base(p))
		}
	}

	manifest, err := s.buildCleanTree(ctx, result, extractDir, cleanDir)
	if err != nil {
		return nil, err
	}

	record, err := s.publish(result, cleanDir, cleanedPath, manifestPath, manifest)
	if err != nil {
		s.rollback(log, cleanedPath, manifestPath)
		return nil, err
	}

	log.Info("архив очищен",
		zap.String("cleaned", record.CleanedPath),
		zap.String("quarantine", record.QuarantinePath),
		zap.Int64("original_size", result.OriginalSize),
		zap.Int64("cleaned_size", record.CleanedSize),
		zap.Int("removed_files", manifest.RemovedFiles),
		zap.String("sha256", record.SHA256),
	)

	return record, nil
}

// buildCleanTree re-extracts the original and copies everything the classifier
// does not match into cleanDir, keeping the archive's top-level directory.
func (s *repairService) buildCleanTree(ctx context.Context, result *models.ArchiveScanResult, extractDir, cleanDir string) (models.Manifest, error) {
	root, err := s.extractor.Extract(ctx, result.Path, extractDir)
	if err != nil {
		return models.Manifest{}, err
	}

	files, err := fstree.ListFiles(root)
	if err != nil {
		return models.Manifest{}, err
	}

	cleanRoot := cleanDir
	if root != extractDir {
		cleanRoot = filepath.Join(cleanDir, filepath.Base(root))
	}

	copied, err := fstree.CopyFiltered(root, cleanRoot, s.patterns.Match)
	if err != nil {
		return models.Manifest{}, err
	}

	remaining, err := fstree.ListFiles(cleanRoot)
	if err != nil {
		return models.Manifest{}, err
	}
	if leftover := s.patterns.Filter(remaining); len(leftover) > 0 {
		return models.Manifest{}, fmt.Errorf("%w: %s", ErrResidualBloat, strings.Join(leftover, ", "))
	}

	return models.Manifest{
		OriginalName:  result.Name,
		OriginalSize:  result.OriginalSize,
		OriginalFiles: len(files),
		RemovedFiles:  len(files) - copied,
		Patterns:      s.patterns.Patterns(),
	}, nil
}

func (s *repairService) publish(result *models.ArchiveScanResult, cleanDir, cleanedPath, manifestPath string, manifest models.Manifest) (*models.CleanedArchiveRecord, error) {
	if err := packDir(cleanDir, cleanedPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(cleanedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	sum, err := sha256File(cleanedPath)
	if err != nil {
		return nil, err
	}

	manifest.CleanedName = filepath.Base(cleanedPath)
	manifest.CleanedSize = info.Size()
	manifest.SHA256 = sum
	manifest.GeneratedAt = s.now()
	if err := writeManifest(manifestPath, manifest); err != nil {
		return nil, err
	}

	if s.beforeQuarantine != nil {
		if err := s.beforeQuarantine(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuarantine, err)
		}
	}

	quarantinePath, err := s.quarantine(result)
	if err != nil {
		return nil, err
	}

	return &models.CleanedArchiveRecord{
		Original:       result,
		CleanedPath:    cleanedPath,
		ManifestPath:   manifestPath,
		QuarantinePath: quarantinePath,
		CleanedSize:    info.Size(),
		SHA256:         sum,
		CreatedAt:      manifest.GeneratedAt,
	}, nil
}

// quarantine moves the original archive by name into the quarantine directory.
// An archive already quarantined under the same name is never overwritten.
func (s *repairService) quarantine(result *models.ArchiveScanResult) (string, error) {
	dir := s.cfg.QuarantineDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuarantine, err)
	}

	target := filepath.Join(dir, result.Name)
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("%w: %s уже в карантине", ErrQuarantine, result.Name)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %v", ErrQuarantine, err)
	}

	if err := os.Rename(result.Path, target); err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuarantine, err)
	}

	return target, nil
}

func (s *repairService) rollback(log *zap.Logger, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Error("не удалось удалить незавершенный результат очистки",
				zap.String("path", p),
				zap.Error(err),
			)
		}
	}
}

func (s *repairService) cleanupTemp(dirs ...string) {
	var errs error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %v", ErrRemoveFailed, err))
		}
	}
	if errs != nil {
		s.logger.Error("не удалось очистить временные файлы", zap.Error(errs))
	}
}
