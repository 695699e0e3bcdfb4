package domain

import "time"

// IngestionPhase is the lifecycle state of the ingestion state machine.
type IngestionPhase string

const (
	IngestionNotStarted IngestionPhase = "not_started"
	IngestionInProgress IngestionPhase = "in_progress"
	IngestionCompleted  IngestionPhase = "completed"
	IngestionFailed     IngestionPhase = "failed"
)

// IngestionStatus is a snapshot of the current (or most recent) run.
// It is written only by the orchestrator and read by any number of
// concurrent status queries.
type IngestionStatus struct {
	Phase             IngestionPhase `json:"status"`
	SourcesProcessed  int            `json:"sources_processed"`
	TotalSources      int            `json:"total_sources"`
	ArticlesProcessed int            `json:"articles_processed"`
	ArticlesFailed    int            `json:"articles_failed"`
	ChunksCreated     int            `json:"chunks_created"`
	StartedAt         time.Time      `json:"started_at,omitzero"`
	CompletedAt       time.Time      `json:"completed_at,omitzero"`
	ErrorMessage      string         `json:"error_message,omitempty"`
}

// Progress returns the coarse-grained completion percentage, driven by
// sources whose feed fetch has finished rather than by articles.
func (s IngestionStatus) Progress() int {
	if s.Phase == IngestionCompleted {
		return 100
	}
	if s.TotalSources == 0 {
		return 0
	}
	return s.SourcesProcessed * 100 / s.TotalSources
}

// Elapsed returns run duration: now minus start while running, completion
// minus start once terminal, zero before the first run.
func (s IngestionStatus) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.CompletedAt.IsZero() {
		return s.CompletedAt.Sub(s.StartedAt)
	}
	if s.Phase == IngestionInProgress {
		return now.Sub(s.StartedAt)
	}
	return 0
}
