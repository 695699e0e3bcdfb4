package domain

import "errors"

// Hard ingestion failures. These abort a run; the previously installed
// index (if any) keeps serving.
var (
	// ErrNoArticlesLoaded means every source failed or produced nothing.
	ErrNoArticlesLoaded = errors.New("no articles loaded")
	// ErrNoChunksCreated means acquisition succeeded but splitting yielded
	// zero chunks.
	ErrNoChunksCreated = errors.New("no chunks created")
)

// ErrIngestionInProgress is returned when a run is triggered while another
// one is still running. Callers poll status and retry later.
var ErrIngestionInProgress = errors.New("ingestion already in progress")

// ErrStoreUnavailable wraps session-store connectivity failures. It is
// propagated to the transport layer rather than silently replaced with an
// empty history, which would fabricate a "new user" context.
var ErrStoreUnavailable = errors.New("session store unavailable")
