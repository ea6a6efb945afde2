package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/backup-sanitizer/internal/config"
	"github.com/sunr3d/backup-sanitizer/internal/pipeline"
)

type Runner interface {
	Run(ctx context.Context) (*pipeline.Outcome, error)
}

// RunnerFactory builds a runner for one scan with request overrides applied.
type RunnerFactory func(cfg *config.Config) (Runner, error)

type ScanAPI struct {
	newRunner RunnerFactory
	logger    *zap.Logger
	cfg       *config.Config

	mu         sync.Mutex
	running    bool
	startedAt  time.Time
	finishedAt time.Time
	lastErr    error
	last       *pipeline.Outcome
	done       chan struct{}
}

func New(newRunner RunnerFactory, logger *zap.Logger, cfg *config.Config) *ScanAPI {
	return &ScanAPI{
		newRunner: newRunner,
		logger:    logger,
		cfg:       cfg,
	}
}

// POST /scan
func (h *ScanAPI) StartScan(w http.ResponseWriter, r *http.Request) {
	var req startScanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("ошибка парсинга JSON запроса", zap.Error(err))
		http.Error(w, "Некорректный запрос: не удалось разобрать JSON", http.StatusBadRequest)
		return
	}

	cfg := *h.cfg
	cfg.AutoRepair = req.AutoRepair
	if req.Limit != nil {
		cfg.Limit = *req.Limit
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, "Некорректный запрос: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		http.Error(w, "Сканирование уже выполняется", http.StatusConflict)
		return
	}
	h.running = true
	h.mu.Unlock()

	runner, err := h.newRunner(&cfg)
	if err != nil {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		h.logger.Error("ошибка подготовки сканирования", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.startedAt = time.Now()
	h.finishedAt = time.Time{}
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	go h.run(runner, done)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(startScanResp{Status: "started"}); err != nil {
		h.logger.Error("ошибка кодирования JSON ответа", zap.Error(err))
	}
}

func (h *ScanAPI) run(runner Runner, done chan struct{}) {
	defer close(done)

	outcome, err := runner.Run(context.Background())
	if err != nil {
		h.logger.Error("сканирование завершилось с ошибкой", zap.Error(err))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	h.finishedAt = time.Now()
	h.last = outcome
	h.lastErr = err
}

// Wait blocks until the scan in progress, if any, has finished.
func (h *ScanAPI) Wait() {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done != nil {
		<-done
	}
}

// GET /report
func (h *ScanAPI) GetReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := getReportResp{
		Running: h.running,
		Outcome: h.last,
	}
	if !h.startedAt.IsZero() {
		resp.StartedAt = h.startedAt.Format(time.RFC3339)
	}
	if !h.finishedAt.IsZero() {
		resp.FinishedAt = h.finishedAt.Format(time.RFC3339)
	}
	if h.lastErr != nil {
		resp.Error = h.lastErr.Error()
	}
	h.mu.Unlock()

	if resp.Outcome == nil && !resp.Running && resp.Error == "" {
		http.Error(w, "Отчет еще не сформирован", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("ошибка кодирования JSON ответа", zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера при кодировании JSON ответа", http.StatusInternalServerError)
	}
}
