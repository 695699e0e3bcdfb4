package domain

import "context"

// IndexEntry is one embedded chunk as committed to the vector index.
type IndexEntry struct {
	Text      string
	Embedding []float32
	Metadata  DocumentMetadata
	Ordinal   int
}

// RetrievedChunk is a similarity-search hit, best-first.
type RetrievedChunk struct {
	Text     string
	Metadata DocumentMetadata
	Score    float32
}

// VectorIndex stores embedded chunks under a collection identifier and
// serves nearest-neighbor queries over them.
//
// Replace commits the batch with full-replacement semantics: readers
// observe either the previous contents or the new batch, never a mix.
// A failed Replace leaves the previous contents serving.
type VectorIndex interface {
	Replace(ctx context.Context, collection string, entries []IndexEntry) error
	Search(ctx context.Context, collection string, query []float32, k int) ([]RetrievedChunk, error)
	// HasCollection reports whether the collection holds a committed batch.
	HasCollection(ctx context.Context, collection string) (bool, error)
}
