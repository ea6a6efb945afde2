package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
	"github.com/sunr3d/backup-sanitizer/models"
)

var _ infra.ResultStore = (*inmemStore)(nil)

type inmemStore struct {
	logger  *zap.Logger
	results map[string]*models.ArchiveScanResult
	cleaned map[string]*models.CleanedArchiveRecord
	mu      sync.RWMutex
}

func New(log *zap.Logger) infra.ResultStore {
	return &inmemStore{
		logger:  log,
		results: make(map[string]*models.ArchiveScanResult),
		cleaned: make(map[string]*models.CleanedArchiveRecord),
	}
}

func (s *inmemStore) SaveResult(ctx context.Context, result *models.ArchiveScanResult) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if result == nil {
		return ErrResultNil
	}

	if result.Name == "" {
		return ErrNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[result.Name] = result
	s.logger.Debug("результат сканирования сохранен", zap.String("archive", result.Name))

	return nil
}

func (s *inmemStore) GetResult(ctx context.Context, name string) (*models.ArchiveScanResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if name == "" {
		return nil, ErrNameEmpty
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.results[name]
	if !exists {
		return nil, ErrResultNotFound
	}

	return result, nil
}

// ListResults returns results ordered by archive name.
func (s *inmemStore) ListResults(ctx context.Context) ([]*models.ArchiveScanResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ArchiveScanResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (s *inmemStore) SaveCleaned(ctx context.Context, record *models.CleanedArchiveRecord) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if record == nil || record.Original == nil {
		return ErrResultNil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleaned[record.Original.Name] = record
	s.logger.Debug("запись об очистке сохранена", zap.String("archive", record.Original.Name))

	return nil
}

func (s *inmemStore) ListCleaned(ctx context.Context) ([]*models.CleanedArchiveRecord, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CleanedArchiveRecord, 0, len(s.cleaned))
	for _, r := range s.cleaned {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Original.Name < out[j].Original.Name })

	return out, nil
}
