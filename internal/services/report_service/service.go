package report_service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/interfaces/services"
	"github.com/sunr3d/backup-sanitizer/models"
)

var _ services.ReportService = (*reportService)(nil)

type reportService struct {
	logger *zap.Logger
	now    func() time.Time
}

func New(log *zap.Logger) services.ReportService {
	return &reportService{
		logger: log,
		now:    time.Now,
	}
}

// Aggregate folds scan results into a report. Failed archives count as
// neither infected nor clean.
func (s *reportService) Aggregate(results []*models.ArchiveScanResult) *models.ScanReport {
	report := &models.ScanReport{
		GeneratedAt: s.now(),
		Total:       len(results),
		Archives:    make([]models.ArchiveDetail, 0, len(results)),
	}

	for _, r := range results {
		status := r.Status()
		switch status {
		case models.ArchiveStatusInfected:
			report.Infected++
		case models.ArchiveStatusClean:
			report.Clean++
		case models.ArchiveStatusFailed:
			report.Failed++
		}

		report.Archives = append(report.Archives, models.ArchiveDetail{
			Name:          r.Name,
			Status:        status,
			OriginalSize:  r.OriginalSize,
			ExtractedSize: r.ExtractedSize,
			TotalFiles:    r.TotalFiles,
			InfectedFiles: r.InfectedFiles,
			Error:         r.Error,
		})
	}

	return report
}

func (s *reportService) Write(path string, report *models.ScanReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	if err := os.WriteFile(path, []byte(RenderMarkdown(report)), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.logger.Info("отчет о сканировании записан", zap.String("path", path))
	return nil
}

var statusLabels = map[models.ArchiveStatus]string{
	models.ArchiveStatusInfected: "⚠️ INFECTED",
	models.ArchiveStatusClean:    "✅ CLEAN",
	models.ArchiveStatusFailed:   "❌ FAILED",
}

func RenderMarkdown(report *models.ScanReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Backup Bloat Scan Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Summary\n")
	fmt.Fprintf(&b, "- Total archives scanned: %d\n", report.Total)
	fmt.Fprintf(&b, "- Infected archives: %d\n", report.Infected)
	fmt.Fprintf(&b, "- Clean archives: %d\n", report.Clean)
	fmt.Fprintf(&b, "- Failed archives: %d\n\n", report.Failed)

	fmt.Fprintf(&b, "## Detailed Results\n\n")
	for _, a := range report.Archives {
		fmt.Fprintf(&b, "### %s\n", a.Name)
		fmt.Fprintf(&b, "- **Status**: %s\n", statusLabels[a.Status])
		fmt.Fprintf(&b, "- **Original Size**: %s\n", humanize.IBytes(uint64(a.OriginalSize)))
		fmt.Fprintf(&b, "- **Total Files**: %d\n", a.TotalFiles)
		fmt.Fprintf(&b, "- **Extracted Size**: %s\n\n", humanize.IBytes(uint64(a.ExtractedSize)))

		if len(a.InfectedFiles) > 0 {
			fmt.Fprintf(&b, "**Infected Files:**\n")
			for _, f := range a.InfectedFiles {
				fmt.Fprintf(&b, "- %s\n", f)
			}
			b.WriteString("\n")
		}

		if a.Error != "" {
			fmt.Fprintf(&b, "**Error**: %s\n\n", a.Error)
		}
	}

	return b.String()
}
