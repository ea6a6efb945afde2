package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/entrypoint"
	"github.com/sunr3d/backup-sanitizer/internal/pipeline"
)

var (
	flagDir          string
	flagLimit        int
	flagAutoRepair   bool
	flagWorkers      int
	flagReport       string
	flagPatternsFile string
	flagEnvFile      string
)

var rootCmd = &cobra.Command{
	Use:           "bloatscan",
	Short:         "Find and strip build/dependency bloat from tar.gz backups",
	Long:          "bloatscan scans a directory of .tar.gz backups for disposable content (node_modules, build output, VCS metadata, logs), writes a report and, once confirmed, produces cleaned archives while quarantining the originals.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, err := entrypoint.Run(ctx, cfg, log, pipeline.NewTerminalConfirmer())
		if err != nil {
			return err
		}

		if out.Report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Архивов: %d, заражено: %d, чистых: %d, ошибок: %d\n",
				out.Report.Total, out.Report.Infected, out.Report.Clean, out.Report.Failed)
			fmt.Fprintf(cmd.OutOrStdout(), "Отчет: %s\n", cfg.ReportFile())
		}
		if len(out.Cleaned) > 0 || len(out.Failures) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Очищено: %d, не удалось: %d\n", len(out.Cleaned), len(out.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "directory with .tar.gz backups (env BACKUP_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagPatternsFile, "patterns", "", "YAML file with exclusion patterns (env PATTERNS_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "scan only the first N archives (0 = all)")
	rootCmd.Flags().BoolVar(&flagAutoRepair, "auto-repair", false, "repair infected archives without asking")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "archives processed in parallel (0 = env WORKERS)")
	rootCmd.Flags().StringVar(&flagReport, "report", "", "path of the Markdown scan report")
}

// setup loads configuration and applies flags explicitly set on cmd.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	if flagPatternsFile != "" {
		os.Setenv("PATTERNS_FILE", flagPatternsFile)
	}

	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.TargetDir = flagDir
	}
	if flags.Changed("limit") {
		cfg.Limit = flagLimit
	}
	if flags.Changed("auto-repair") {
		cfg.AutoRepair = flagAutoRepair
	}
	if flags.Changed("workers") && flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("report") {
		cfg.ReportPath = flagReport
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("некорректный LOG_LEVEL %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.Encoding = "console"
	return zcfg.Build()
}
