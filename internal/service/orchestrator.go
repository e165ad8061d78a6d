package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aivideogen/internal/core/domain"
	"aivideogen/internal/core/ports"
	"aivideogen/internal/quota"
)

// Orchestrator coordinates the generation workflow: prompt validation, the
// quota check, the remote generation call, and history recording.
//
// It serializes submissions the way the UI's disable-while-in-flight rule
// does: an overlapping Generate is rejected with domain.ErrBusy. The
// generation client underneath performs no locking of its own.
type Orchestrator struct {
	generator ports.Generator
	history   ports.HistoryStore
	quota     *quota.Counter // nil means no quota enforcement
	logger    *zap.Logger

	inFlight atomic.Bool

	mu      sync.RWMutex
	current *domain.GenerationResult
}

// NewOrchestrator creates a new Orchestrator. Pass a nil quota counter when
// no usage limit applies.
func NewOrchestrator(
	generator ports.Generator,
	history ports.HistoryStore,
	q *quota.Counter,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		history:   history,
		quota:     q,
		logger:    logger,
	}
}

// Generate runs one complete generation job for the given prompt.
//
// A whitespace-only prompt fails with domain.ErrEmptyPrompt and an exhausted
// quota with domain.ErrQuotaExceeded, both before any network call. On
// success the result becomes the current result and is recorded in history;
// a failed history write never fails the job.
func (o *Orchestrator) Generate(ctx context.Context, promptText string) (*domain.GenerationResult, error) {
	prompt := strings.TrimSpace(promptText)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if o.quota != nil && !o.quota.CanGenerate() {
		return nil, domain.ErrQuotaExceeded
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrBusy
	}
	defer o.inFlight.Store(false)

	jobID := uuid.New().String()
	o.logger.Info("starting generation job",
		zap.String("job_id", jobID),
		zap.String("prompt", prompt))

	result, err := o.generator.Submit(ctx, prompt)
	if err != nil {
		o.logger.Warn("generation job failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}

	o.mu.Lock()
	o.current = result
	o.mu.Unlock()

	if _, err := o.history.Add(ctx, result.PromptText, result.MediaURL); err != nil {
		// History is best effort; a failed write never fails the job.
		o.logger.Warn("could not record history", zap.String("job_id", jobID), zap.Error(err))
	}
	if o.quota != nil {
		o.quota.Record()
	}

	o.logger.Info("generation job completed",
		zap.String("job_id", jobID),
		zap.String("media_url", result.MediaURL))
	return result, nil
}

// Current returns the most recent successful result, or nil if none.
func (o *Orchestrator) Current() *domain.GenerationResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// History returns the persisted history, newest first.
func (o *Orchestrator) History(ctx context.Context) []domain.HistoryEntry {
	return o.history.Load(ctx)
}

// ClearHistory erases the persisted history.
func (o *Orchestrator) ClearHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	return o.history.Clear(ctx)
}
