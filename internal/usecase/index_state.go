package usecase

import "sync/atomic"

// IndexState tracks whether the vector index has ever held a successfully
// committed batch. The orchestrator flips it after a successful run; the
// answer path snapshot-reads it before touching the index. A failed run
// never clears an already-ready state, so a prior good index keeps
// serving.
type IndexState struct {
	ready atomic.Bool
}

// NewIndexState returns a state holder; ready seeds the flag, typically
// from VectorIndex.HasCollection at boot so a restart keeps serving a
// previously committed index.
func NewIndexState(ready bool) *IndexState {
	s := &IndexState{}
	s.ready.Store(ready)
	return s
}

// MarkReady flips the state after a successful index commit.
func (s *IndexState) MarkReady() { s.ready.Store(true) }

// Ready reports whether an index is available to answer from.
func (s *IndexState) Ready() bool { return s.ready.Load() }
