package entrypoint

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/api"
	"github.com/sunr3d/backup-sanitizer/internal/classifier"
	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/infra/tarcli"
	"github.com/sunr3d/backup-sanitizer/internal/middleware"
	"github.com/sunr3d/backup-sanitizer/internal/pipeline"
	"github.com/sunr3d/backup-sanitizer/internal/server"
	"github.com/sunr3d/backup-sanitizer/internal/services/repair_service"
	"github.com/sunr3d/backup-sanitizer/internal/services/report_service"
	"github.com/sunr3d/backup-sanitizer/internal/services/scan_service"
)

// NewDriver wires the pipeline for cfg. Scan and repair share one classifier.
func NewDriver(cfg *config.Config, log *zap.Logger, confirmer pipeline.Confirmer) (*pipeline.Driver, error) {
	patterns, err := classifier.New(cfg.ExclusionPatterns)
	if err != nil {
		return nil, fmt.Errorf("не удалось подготовить шаблоны исключений: %w", err)
	}

	extractor := tarcli.New(log, cfg.TarBinary, cfg.ExtractTimeout)
	scanner := scan_service.New(log, cfg, extractor, patterns)
	repairer := repair_service.New(log, cfg, extractor, patterns)
	reporter := report_service.New(log)

	return pipeline.New(log, cfg, scanner, repairer, reporter, confirmer), nil
}

func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, confirmer pipeline.Confirmer) (*pipeline.Outcome, error) {
	driver, err := NewDriver(cfg, log, confirmer)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx)
}

// Serve exposes the pipeline over HTTP. Repairs run only when the request
// asks for them, never through an interactive prompt.
func Serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	factory := func(c *config.Config) (api.Runner, error) {
		return NewDriver(c, log, pipeline.NeverConfirm)
	}
	controller := api.New(factory, log, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /scan", controller.StartScan)
	mux.HandleFunc("GET /report", controller.GetReport)

	router := middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.ReqLogger(log),
		middleware.JSONValidator(),
	)

	srv := server.New(cfg.HTTPPort, router, log)
	err := srv.Start(ctx)
	controller.Wait()
	return err
}
