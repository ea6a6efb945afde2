package models

import "time"

type ScanReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Total       int             `json:"total"`
	Infected    int             `json:"infected"`
	Clean       int             `json:"clean"`
	Failed      int             `json:"failed"`
	Archives    []ArchiveDetail `json:"archives"`
}

type ArchiveDetail struct {
	Name          string        `json:"name"`
	Status        ArchiveStatus `json:"status"`
	OriginalSize  int64         `json:"original_size"`
	ExtractedSize int64         `json:"extracted_size"`
	TotalFiles    int           `json:"total_files"`
	InfectedFiles []string      `json:"infected_files,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Manifest is the audit record written next to every cleaned archive.
type Manifest struct {
	OriginalName  string
	CleanedName   string
	GeneratedAt   time.Time
	OriginalSize  int64
	CleanedSize   int64
	OriginalFiles int
	RemovedFiles  int
	SHA256        string
	Patterns      []string
}

// ReductionPercent is the share of the original size saved by cleaning.
func (m Manifest) ReductionPercent() float64 {
	if m.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(m.CleanedSize)/float64(m.OriginalSize)) * 100
}
