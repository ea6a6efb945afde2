package config

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	CleanedSuffix      = "_cleaned"
	ReportFileName     = "summary-backup-bloat-scan.md"
	patternsEnv        = "EXCLUSION_PATTERNS"
	defaultPatternList = "node_modules/,.expo/,.turbo/,.next/,.vercel/,*.log,dist/,*.tmp,.DS_Store,*.tar.gz,*.zip,.git/,coverage/,.nyc_output/,build/,out/,.cache/,.parcel-cache/,*.tsbuildinfo"
)

type Config struct {
	TargetDir         string        `envconfig:"BACKUP_DIR" default:"./backups"`
	QuarantineDirName string        `envconfig:"QUARANTINE_DIR" default:"z_bloated_archive_graveyard"`
	TempDirName       string        `envconfig:"TEMP_DIR" default:"temp_extraction"`
	Limit             int           `envconfig:"SCAN_LIMIT" default:"0"`
	AutoRepair        bool          `envconfig:"AUTO_REPAIR" default:"false"`
	Workers           int           `envconfig:"WORKERS" default:"1"`
	ExclusionPatterns []string      `envconfig:"EXCLUSION_PATTERNS"`
	PatternsFile      string        `envconfig:"PATTERNS_FILE"`
	ExtractTimeout    time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"10m"`
	TarBinary         string        `envconfig:"TAR_BIN" default:"tar"`
	ReportPath        string        `envconfig:"REPORT_PATH"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort          string        `envconfig:"HTTP_PORT" default:"8080"`
}

// DefaultPatterns returns a fresh copy of the built-in exclusion list.
func DefaultPatterns() []string {
	return strings.Split(defaultPatternList, ",")
}

func (c *Config) QuarantineDir() string {
	return filepath.Join(c.TargetDir, c.QuarantineDirName)
}

func (c *Config) TempDir() string {
	return filepath.Join(c.TargetDir, c.TempDirName)
}

func (c *Config) ReportFile() string {
	if c.ReportPath != "" {
		return c.ReportPath
	}
	return filepath.Join(c.TargetDir, ReportFileName)
}
