package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/JonMunkholm/barredora/internal/logging"
	"github.com/JonMunkholm/barredora/internal/tabfile"
	"github.com/JonMunkholm/barredora/internal/table"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned for unknown or expired run ids.
var ErrRunNotFound = errors.New("run not found")

// Operation labels used in logs and metrics.
const (
	OpInspect = "inspect"
	OpClean   = "clean"
)

// Defaults applied to zero Options fields.
const (
	DefaultRunTimeout  = 2 * time.Minute
	DefaultResultTTL   = 30 * time.Minute
	runLogWriteTimeout = 5 * time.Second
	unknownFormatLabel = "unknown"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	ResultTTL     time.Duration
	PreviewRows   int

	// Recorder stores run metadata. Nil disables the run log.
	Recorder RunRecorder

	// Telemetry receives run metrics. Nil disables them.
	Telemetry *Telemetry
}

// Inspection describes an uploaded file without cleaning it.
type Inspection struct {
	FileName  string  `json:"file_name"`
	Format    string  `json:"format"`
	BytesRead int64   `json:"bytes_read"`
	Summary   Summary `json:"summary"`
	Preview   Preview `json:"preview"`
}

// Run is one completed cleaning run. The cleaned table stays available for
// download until ExpiresAt.
type Run struct {
	ID              string        `json:"id"`
	FileName        string        `json:"file_name"`
	DownloadName    string        `json:"download_name"`
	Format          string        `json:"format"`
	BytesRead       int64         `json:"bytes_read"`
	Metrics         Metrics       `json:"metrics"`
	Original        Summary       `json:"original"`
	OriginalPreview Preview       `json:"original_preview"`
	CleanedPreview  Preview       `json:"cleaned_preview"`
	Cleaned         *table.Table  `json:"-"`
	Duration        time.Duration `json:"duration_ns"`
	CreatedAt       time.Time     `json:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
}

// Service loads, inspects and cleans uploaded files. It holds cleaned
// results in memory for a limited time and optionally records each run.
type Service struct {
	limiter     *RunLimiter
	recorder    RunRecorder
	telemetry   *Telemetry
	timeout     time.Duration
	resultTTL   time.Duration
	previewRows int
	now         func() time.Time

	mu   sync.RWMutex
	runs map[string]*storedRun
}

type storedRun struct {
	run   *Run
	timer *time.Timer
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrentRuns
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = DefaultMaxWaitTime
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRunTimeout
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}

	return &Service{
		limiter:     NewRunLimiter(opts.MaxConcurrent, opts.MaxWait),
		recorder:    opts.Recorder,
		telemetry:   opts.Telemetry,
		timeout:     opts.Timeout,
		resultTTL:   opts.ResultTTL,
		previewRows: opts.PreviewRows,
		now:         time.Now,
		runs:        make(map[string]*storedRun),
	}
}

// Inspect loads the file and returns its summary and head preview.
func (s *Service) Inspect(ctx context.Context, fileName string, r io.Reader) (*Inspection, error) {
	format := formatLabel(fileName)
	start := s.now()

	release, err := s.acquire(ctx, OpInspect, format, fileName)
	if err != nil {
		return nil, err
	}
	defer release()

	original, bytesRead, err := s.load(ctx, OpInspect, format, fileName, r)
	if err != nil {
		return nil, err
	}

	s.telemetry.observeRun(OpInspect, format, ResultSuccess, s.now().Sub(start))
	return &Inspection{
		FileName:  fileName,
		Format:    format,
		BytesRead: bytesRead,
		Summary:   Summarize(original),
		Preview:   PreviewRows(original, s.previewRows),
	}, nil
}

// Clean loads the file, runs the cleaning pipeline and stores the result
// for later download. The run slot is held until the run is recorded.
func (s *Service) Clean(ctx context.Context, fileName string, r io.Reader) (*Run, error) {
	format := formatLabel(fileName)
	start := s.now()

	release, err := s.acquire(ctx, OpClean, format, fileName)
	if err != nil {
		return nil, err
	}
	defer release()

	original, bytesRead, err := s.load(ctx, OpClean, format, fileName, r)
	if err != nil {
		return nil, err
	}

	cleaned, metrics := Clean(original)
	created := s.now()
	run := &Run{
		ID:              uuid.New().String(),
		FileName:        fileName,
		DownloadName:    tabfile.DownloadName(fileName),
		Format:          format,
		BytesRead:       bytesRead,
		Metrics:         metrics,
		Original:        Summarize(original),
		OriginalPreview: PreviewRows(original, s.previewRows),
		CleanedPreview:  PreviewRows(cleaned, s.previewRows),
		Cleaned:         cleaned,
		Duration:        created.Sub(start),
		CreatedAt:       created,
		ExpiresAt:       created.Add(s.resultTTL),
	}

	s.storeRun(run)
	s.telemetry.observeRun(OpClean, format, ResultSuccess, run.Duration)
	s.telemetry.observeClean(metrics)

	runLogger := logging.WithFields(ctx,
		"run_id", run.ID,
		"file", fileName,
		"format", format,
	)
	runLogger.Info("cleaning run completed",
		"bytes_read", bytesRead,
		"original_rows", metrics.OriginalRowCount,
		"cleaned_rows", metrics.CleanedRowCount,
		"duplicates_removed", metrics.DuplicatesRemoved,
		"empty_rows_removed", metrics.EmptyRowsRemoved,
		"text_columns", len(metrics.TextColumns),
		"duration_ms", run.Duration.Milliseconds(),
	)

	s.recordRun(ctx, run)
	return run, nil
}

// acquire takes a run slot. The returned func frees it and must be called
// once the run is finished.
func (s *Service) acquire(ctx context.Context, op, format, fileName string) (func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.telemetry.observeRun(op, format, ResultRejected, 0)
		logging.FromContext(ctx).Warn("cleaning run rejected",
			"operation", op,
			"file", fileName,
			"active", s.limiter.ActiveCount(),
			"error", err,
		)
		return nil, err
	}

	s.telemetry.runStarted()
	return func() {
		s.telemetry.runFinished()
		s.limiter.Release()
	}, nil
}

// load decodes the file under the run timeout and reports how many bytes
// were read from r.
func (s *Service) load(ctx context.Context, op, format, fileName string, r io.Reader) (*table.Table, int64, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	counter := tabfile.NewCountingReader(r)
	t, err := tabfile.Load(loadCtx, fileName, counter)
	s.telemetry.observeBytes(op, format, counter.BytesRead)
	if err != nil {
		result := ResultError
		var loadErr *tabfile.LoadError
		if errors.As(err, &loadErr) {
			result = ResultInvalid
		}
		s.telemetry.observeRun(op, format, result, 0)
		return nil, counter.BytesRead, err
	}
	return t, counter.BytesRead, nil
}

func (s *Service) storeRun(run *Run) {
	id := run.ID
	s.mu.Lock()
	s.runs[id] = &storedRun{
		run:   run,
		timer: time.AfterFunc(s.resultTTL, func() { s.evict(id) }),
	}
	n := len(s.runs)
	s.mu.Unlock()

	s.telemetry.setStoredRuns(n)
}

func (s *Service) evict(id string) {
	s.mu.Lock()
	delete(s.runs, id)
	n := len(s.runs)
	s.mu.Unlock()

	s.telemetry.setStoredRuns(n)
}

// recordRun writes the run to the run log. Failures are logged only; a run
// log outage never fails a cleaning run.
func (s *Service) recordRun(ctx context.Context, run *Run) {
	if s.recorder == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runLogWriteTimeout)
	defer cancel()

	err := s.recorder.Record(writeCtx, RunRecord{
		ID:        run.ID,
		FileName:  run.FileName,
		Format:    run.Format,
		BytesRead: run.BytesRead,
		Metrics:   run.Metrics,
		Duration:  run.Duration,
		ClientIP:  ClientIPFromContext(ctx),
		CreatedAt: run.CreatedAt,
	})
	if err != nil {
		s.telemetry.runLogFailed()
		logging.WithFields(ctx, "run_id", run.ID).Error("failed to record cleaning run",
			"error", err,
			"user_agent", UserAgentFromContext(ctx),
		)
	}
}

// GetRun returns a stored run, or ErrRunNotFound if it is unknown or expired.
func (s *Service) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	stored, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(stored.run.ExpiresAt) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return stored.run, nil
}

// StoredRuns returns how many cleaned results are held for download.
func (s *Service) StoredRuns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// RunLogEnabled reports whether runs are recorded.
func (s *Service) RunLogEnabled() bool {
	return s.recorder != nil
}

// RecentRuns lists up to limit run log entries, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s.recorder == nil {
		return nil, ErrRunLogDisabled
	}
	return s.recorder.Recent(ctx, limit)
}

// GetRecord returns one run log entry.
func (s *Service) GetRecord(ctx context.Context, id string) (RunRecord, error) {
	if s.recorder == nil {
		return RunRecord{}, ErrRunLogDisabled
	}
	return s.recorder.Get(ctx, id)
}

// LimiterStatus returns the current run slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until all in-flight runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close drops every stored run and stops their expiry timers.
func (s *Service) Close() {
	s.mu.Lock()
	for id, stored := range s.runs {
		stored.timer.Stop()
		delete(s.runs, id)
	}
	s.mu.Unlock()

	s.telemetry.setStoredRuns(0)
}

func formatLabel(fileName string) string {
	format, err := tabfile.DetectFormat(fileName)
	if err != nil {
		return unknownFormatLabel
	}
	return string(format)
}
