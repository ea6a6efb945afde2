package infra

import (
	"context"

	"github.com/sunr3d/backup-sanitizer/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ResultStore --output=../../../mocks
type ResultStore interface {
	SaveResult(ctx context.Context, result *models.ArchiveScanResult) error
	GetResult(ctx context.Context, name string) (*models.ArchiveScanResult, error)
	ListResults(ctx context.Context) ([]*models.ArchiveScanResult, error)
	SaveCleaned(ctx context.Context, record *models.CleanedArchiveRecord) error
	ListCleaned(ctx context.Context) ([]*models.CleanedArchiveRecord, error)
}
