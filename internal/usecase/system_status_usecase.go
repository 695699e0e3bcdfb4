package usecase

import (
	"fmt"
	"time"

	"rag-chatbot/internal/domain"
)

// Overall system states derived from index and ingestion state.
const (
	SystemOK           = "ok"
	SystemInitializing = "initializing"
	SystemError        = "error"
	SystemNotReady     = "not_ready"
)

// SystemStatus is the read-only snapshot served to status queries. It has
// no side effects and is safe to request at arbitrarily high frequency.
type SystemStatus struct {
	State            string                 `json:"status"`
	Message          string                 `json:"message"`
	IndexInitialized bool                   `json:"vector_store_ready"`
	SourceCount      int                    `json:"news_sources"`
	Ingestion        domain.IngestionStatus `json:"ingestion"`
	Progress         int                    `json:"progress"`
	ElapsedSeconds   float64                `json:"elapsed_time_seconds"`
}

// SystemStatusUsecase composes the index state, source configuration, and
// ingestion tracker into one snapshot.
type SystemStatusUsecase interface {
	Execute() SystemStatus
}

type systemStatusUsecase struct {
	state       *IndexState
	tracker     *StatusTracker
	sourceCount int
}

// NewSystemStatusUsecase wires the status read surface.
func NewSystemStatusUsecase(state *IndexState, tracker *StatusTracker, sourceCount int) SystemStatusUsecase {
	return &systemStatusUsecase{state: state, tracker: tracker, sourceCount: sourceCount}
}

func (u *systemStatusUsecase) Execute() SystemStatus {
	ingestion := u.tracker.Snapshot()
	progress := ingestion.Progress()

	status := SystemStatus{
		State:            SystemOK,
		Message:          "System is ready",
		IndexInitialized: u.state.Ready(),
		SourceCount:      u.sourceCount,
		Ingestion:        ingestion,
		Progress:         progress,
		ElapsedSeconds:   ingestion.Elapsed(time.Now()).Seconds(),
	}

	switch {
	case ingestion.Phase == domain.IngestionInProgress:
		status.State = SystemInitializing
		status.Message = fmt.Sprintf("Loading news data (%d%% complete)", progress)
	case ingestion.Phase == domain.IngestionFailed:
		status.State = SystemError
		status.Message = fmt.Sprintf("Error loading news data: %s", ingestion.ErrorMessage)
	case !u.state.Ready():
		status.State = SystemNotReady
		status.Message = "Vector store not initialized"
	}

	return status
}
