package domain

// Chunk is a bounded text fragment derived from one AcquiredDocument.
// It carries the parent document's metadata unmodified plus its position
// within the document.
type Chunk struct {
	Text     string
	Ordinal  int
	Metadata DocumentMetadata
}
