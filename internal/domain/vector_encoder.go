package domain

import "context"

// VectorEncoder turns text into embedding vectors. Encode is batched; a
// failure on any input fails the whole batch.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
