package models

import "time"

type ArchiveStatus string

const (
	ArchiveStatusClean    ArchiveStatus = "clean"
	ArchiveStatusInfected ArchiveStatus = "infected"
	ArchiveStatusFailed   ArchiveStatus = "failed"
)

// ArchiveScanResult is filled once by the scan analyzer and read-only afterwards.
type ArchiveScanResult struct {
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	OriginalSize  int64     `json:"original_size"`
	TotalFiles    int       `json:"total_files"`
	InfectedFiles []string  `json:"infected_files"`
	Infected      bool      `json:"infected"`
	ExtractedSize int64     `json:"extracted_size"`
	Error         string    `json:"error,omitempty"`
	ScannedAt     time.Time `json:"scanned_at"`
}

func (r *ArchiveScanResult) Status() ArchiveStatus {
	switch {
	case r.Error != "":
		return ArchiveStatusFailed
	case r.Infected:
		return ArchiveStatusInfected
	default:
		return ArchiveStatusClean
	}
}

// Repairable reports whether the sanitizer may run on this result.
func (r *ArchiveScanResult) Repairable() bool {
	return r.Infected && r.Error == ""
}

type CleanedArchiveRecord struct {
	Original       *ArchiveScanResult `json:"original"`
	CleanedPath    string             `json:"cleaned_path"`
	ManifestPath   string             `json:"manifest_path"`
	QuarantinePath string             `json:"quarantine_path"`
	CleanedSize    int64              `json:"cleaned_size"`
	SHA256         string             `json:"sha256"`
	CreatedAt      time.Time          `json:"created_at"`
}
