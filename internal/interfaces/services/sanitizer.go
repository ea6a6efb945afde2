package services

import (
	"context"

	"github.com/sunr3d/backup-sanitizer/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ScanService --output=../../../mocks
type ScanService interface {
	Analyze(ctx context.Context, archivePath string) *models.ArchiveScanResult
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=RepairService --output=../../../mocks
type RepairService interface {
	Repair(ctx context.Context, result *models.ArchiveScanResult) (*models.CleanedArchiveRecord, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ReportService --output=../../../mocks
type ReportService interface {
	Aggregate(results []*models.ArchiveScanResult) *models.ScanReport
	Write(path string, report *models.ScanReport) error
}
