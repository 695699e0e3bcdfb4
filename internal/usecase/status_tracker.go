package usecase

import (
	"sync"
	"time"

	"rag-chatbot/internal/domain"
)

// StatusTracker owns the process-wide ingestion status. The orchestrator
// is the only writer; Snapshot may be called from any goroutine at any
// frequency. Counters are eventually consistent mid-run, the terminal
// phase is flushed last.
type StatusTracker struct {
	mu     sync.RWMutex
	status domain.IngestionStatus
}

// NewStatusTracker starts in the not_started phase.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		status: domain.IngestionStatus{Phase: domain.IngestionNotStarted},
	}
}

// TryStart atomically claims the tracker for a new run. It fails when a
// run is already in progress; callers poll and retry. Claiming resets all
// counters from any prior run.
func (t *StatusTracker) TryStart(totalSources int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.Phase == domain.IngestionInProgress {
		return false
	}
	t.status = domain.IngestionStatus{
		Phase:        domain.IngestionInProgress,
		TotalSources: totalSources,
		StartedAt:    time.Now(),
	}
	return true
}

// SourceProcessed advances per-source progress. Called right after a
// source's feed fetch finishes, successful or not.
func (t *StatusTracker) SourceProcessed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.SourcesProcessed++
}

// ArticlesLoaded records successfully acquired articles for one source.
func (t *StatusTracker) ArticlesLoaded(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ArticlesProcessed += n
}

// ArticlesFailed records per-entry fetch or parse failures.
func (t *StatusTracker) ArticlesFailed(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ArticlesFailed += n
}

// ChunksCreated records the chunking stage output size.
func (t *StatusTracker) ChunksCreated(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ChunksCreated = n
}

// Complete terminates the run successfully.
func (t *StatusTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Phase = domain.IngestionCompleted
	t.status.CompletedAt = time.Now()
	t.status.ErrorMessage = ""
}

// Fail terminates the run with the given operator-facing message.
func (t *StatusTracker) Fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Phase = domain.IngestionFailed
	t.status.CompletedAt = time.Now()
	t.status.ErrorMessage = msg
}

// Snapshot returns a copy of the current status.
func (t *StatusTracker) Snapshot() domain.IngestionStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}
