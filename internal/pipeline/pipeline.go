// Package pipeline sequences scan, report and repair over a directory of
// archives.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/infra/inmem"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/infra"
	"github.com/sunr3d/backup-sanitizer/internal/interfaces/services"
	"github.com/sunr3d/backup-sanitizer/models"
)

type State string

const (
	StateIdle                 State = "idle"
	StateScanning             State = "scanning"
	StateReported             State = "reported"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateRepairing            State = "repairing"
	StateDone                 State = "done"
)

const archiveGlob = "*.{tar.gz,tgz}"

type RepairFailure struct {
	Name string `json:"name"`
	Err  string `json:"error"`
}

// Outcome is everything one run produced.
type Outcome struct {
	States    []State                        `json:"states"`
	Archives  []string                       `json:"archives"`
	Results   []*models.ArchiveScanResult    `json:"results"`
	Report    *models.ScanReport             `json:"report,omitempty"`
	Confirmed bool                           `json:"confirmed"`
	Cleaned   []*models.CleanedArchiveRecord `json:"cleaned"`
	Failures  []RepairFailure                `json:"failures,omitempty"`
}

func (o *Outcome) Final() State {
	if len(o.States) == 0 {
		return StateIdle
	}
	return o.States[len(o.States)-1]
}

type Driver struct {
	logger    *zap.Logger
	cfg       *config.Config
	scanner   services.ScanService
	repairer  services.RepairService
	reporter  services.ReportService
	confirmer Confirmer
}

func New(
	log *zap.Logger,
	cfg *config.Config,
	scanner services.ScanService,
	repairer services.RepairService,
	reporter services.ReportService,
	confirmer Confirmer,
) *Driver {
	if confirmer == nil {
		confirmer = NeverConfirm
	}
	return &Driver{
		logger:    log,
		cfg:       cfg,
		scanner:   scanner,
		repairer:  repairer,
		reporter:  reporter,
		confirmer: confirmer,
	}
}

func (d *Driver) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{
		Results: []*models.ArchiveScanResult{},
		Cleaned: []*models.CleanedArchiveRecord{},
	}
	d.enter(out, StateIdle)

	d.logger.Info("запуск очистки архивов",
		zap.String("target_dir", d.cfg.TargetDir),
		zap.Int("patterns", len(d.cfg.ExclusionPatterns)),
		zap.Int("workers", d.cfg.Workers),
	)

	created, err := d.prepare()
	if err != nil {
		return out, err
	}
	if created {
		d.enter(out, StateDone)
		return out, nil
	}

	archives, err := d.discover()
	if err != nil {
		return out, err
	}
	out.Archives = archives
	if len(archives) == 0 {
		d.logger.Info("архивы для анализа не найдены")
		d.enter(out, StateDone)
		return out, nil
	}

	store := inmem.New(d.logger)

	d.enter(out, StateScanning)
	d.scanAll(ctx, store, archives)

	results, err := store.ListResults(context.WithoutCancel(ctx))
	if err != nil {
		return out, err
	}
	out.Results = results

	d.enter(out, StateReported)
	out.Report = d.reporter.Aggregate(results)
	if err := d.reporter.Write(d.cfg.ReportFile(), out.Report); err != nil {
		d.logger.Error("не удалось записать отчет", zap.Error(err))
	}

	if out.Report.Infected == 0 {
		d.enter(out, StateDone)
		return out, nil
	}

	d.enter(out, StateAwaitingConfirmation)
	out.Confirmed = d.confirm(ctx, out.Report.Infected)
	if !out.Confirmed {
		d.logger.Info("очистка пропущена пользователем")
		d.enter(out, StateDone)
		return out, nil
	}

	d.enter(out, StateRepairing)
	out.Failures = d.repairAll(ctx, store, results)

	cleaned, err := store.ListCleaned(context.WithoutCancel(ctx))
	if err != nil {
		return out, err
	}
	out.Cleaned = cleaned

	d.logger.Info("очистка завершена",
		zap.Int("repaired", len(out.Cleaned)),
		zap.Int("failed", len(out.Failures)),
	)
	d.enter(out, StateDone)
	return out, nil
}

func (d *Driver) enter(out *Outcome, s State) {
	out.States = append(out.States, s)
	d.logger.Debug("переход состояния", zap.String("state", string(s)))
}

// prepare reports created=true when the target directory did not exist; the
// run then has nothing to do. Leftover working directories are removed.
func (d *Driver) prepare() (bool, error) {
	info, err := os.Stat(d.cfg.TargetDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		for _, dir := range []string{d.cfg.TargetDir, d.cfg.QuarantineDir(), d.cfg.TempDir()} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return false, fmt.Errorf("%w: %v", ErrTargetDir, err)
			}
		}
		d.logger.Info("директория с архивами создана", zap.String("path", d.cfg.TargetDir))
		return true, nil
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrTargetDir, err)
	case !info.IsDir():
		return false, fmt.Errorf("%w: %s не является директорией", ErrTargetDir, d.cfg.TargetDir)
	}

	if err := os.RemoveAll(d.cfg.TempDir()); err != nil {
		d.logger.Warn("не удалось удалить старые временные файлы", zap.Error(err))
	}
	if err := os.MkdirAll(d.cfg.TempDir(), 0755); err != nil {
		return false, fmt.Errorf("%w: %v", ErrTargetDir, err)
	}

	return false, nil
}

// discover lists archives in the target directory by name, skipping
// already-cleaned outputs, and applies the limit.
func (d *Driver) discover() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(d.cfg.TargetDir), archiveGlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	sort.Strings(matches)

	archives := make([]string, 0, len(matches))
	for _, name := range matches {
		if strings.Contains(name, config.CleanedSuffix) {
			continue
		}
		path := filepath.Join(d.cfg.TargetDir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		archives = append(archives, path)
	}

	d.logger.Info("найдены архивы", zap.Int("count", len(archives)))

	if d.cfg.Limit > 0 && len(archives) > d.cfg.Limit {
		d.logger.Info("обрабатываются только первые архивы", zap.Int("limit", d.cfg.Limit))
		archives = archives[:d.cfg.Limit]
	}

	return archives, nil
}

func (d *Driver) scanAll(ctx context.Context, store infra.ResultStore, archives []string) {
	d.forEach(archives, func(path string) {
		result := d.scanner.Analyze(ctx, path)
		if err := store.SaveResult(context.WithoutCancel(ctx), result); err != nil {
			d.logger.Error("не удалось сохранить результат", zap.String("archive", result.Name), zap.Error(err))
		}
	})
}

// repairAll repairs every repairable result, reading each one back from the
// store by name. Failures are collected, never returned.
func (d *Driver) repairAll(ctx context.Context, store infra.ResultStore, results []*models.ArchiveScanResult) []RepairFailure {
	names := make([]string, 0, len(results))
	for _, r := range results {
		if r.Repairable() {
			names = append(names, r.Name)
		}
	}

	var (
		mu       sync.Mutex
		failures []RepairFailure
	)
	fail := func(name string, err error) {
		d.logger.Error("ошибка очистки архива", zap.String("archive", name), zap.Error(err))
		mu.Lock()
		failures = append(failures, RepairFailure{Name: name, Err: err.Error()})
		mu.Unlock()
	}

	d.forEach(names, func(name string) {
		result, err := store.GetResult(context.WithoutCancel(ctx), name)
		if err != nil {
			fail(name, err)
			return
		}

		record, err := d.repairer.Repair(ctx, result)
		if err != nil {
			fail(name, err)
			return
		}
		if err := store.SaveCleaned(context.WithoutCancel(ctx), record); err != nil {
			d.logger.Error("не удалось сохранить запись об очистке", zap.String("archive", name), zap.Error(err))
		}
	})

	sort.Slice(failures, func(i, j int) bool { return failures[i].Name < failures[j].Name })
	return failures
}

// forEach runs fn for every item on at most cfg.Workers goroutines.
func (d *Driver) forEach(items []string, fn func(string)) {
	workers := d.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(item string) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(item)
		}(item)
	}
	wg.Wait()
}

func (d *Driver) confirm(ctx context.Context, infected int) bool {
	if d.cfg.AutoRepair {
		return true
	}

	ok, err := d.confirmer.Confirm(ctx, fmt.Sprintf("Найдено зараженных архивов: %d. Выполнить очистку?", infected))
	if err != nil {
		d.logger.Error("ошибка подтверждения, очистка пропущена", zap.Error(err))
		return false
	}
	return ok
}
