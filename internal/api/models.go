package api

import "github.com/sunr3d/backup-sanitizer/internal/pipeline"

// StartScan
type startScanReq struct {
	AutoRepair bool `json:"auto_repair"`
	Limit      *int `json:"limit,omitempty"`
}

type startScanResp struct {
	Status string `json:"status"`
}

// GetReport
type getReportResp struct {
	Running    bool              `json:"running"`
	StartedAt  string            `json:"started_at,omitempty"`
	FinishedAt string            `json:"finished_at,omitempty"`
	Error      string            `json:"error,omitempty"`
	Outcome    *pipeline.Outcome `json:"outcome,omitempty"`
}
