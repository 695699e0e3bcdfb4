package domain

// DefaultChunkSize is the target chunk length in runes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the number of runes carried from the tail of one
// chunk into the head of the next.
const DefaultChunkOverlap = 100

// Splitter cuts document text into overlapping chunks suitable for
// embedding. Splitting is deterministic: the same text always produces
// the same boundaries.
type Splitter interface {
	Split(text string) []string
}

// RecursiveSplitter splits text into chunks of at most ChunkSize runes,
// preferring to cut at the largest natural boundary available inside the
// window: paragraph break, then line break, then word break, then a plain
// rune position. Adjacent chunks share exactly ChunkOverlap runes so local
// context survives the cut.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewRecursiveSplitter returns a splitter with the given size and overlap.
// Non-positive or inconsistent parameters fall back to the defaults.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
		if chunkOverlap >= chunkSize {
			chunkOverlap = chunkSize / 10
		}
	}
	return &RecursiveSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Split returns the chunk texts for the document. Empty input yields nil.
func (s *RecursiveSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		if len(runes)-start <= s.ChunkSize {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := s.findCut(runes, start, start+s.ChunkSize)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - s.ChunkOverlap
	}
	return chunks
}

// findCut picks the cut position inside (start+overlap, end]. The cut must
// leave more than ChunkOverlap runes in the current chunk, otherwise the
// overlap carry would stall the scan.
func (s *RecursiveSplitter) findCut(runes []rune, start, end int) int {
	floor := start + s.ChunkOverlap + 1

	// Paragraph boundary: cut just after a blank line.
	for i := end; i >= floor; i-- {
		if runes[i-1] == '\n' && i-2 >= start && runes[i-2] == '\n' {
			return i
		}
	}
	// Line boundary.
	for i := end; i >= floor; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	// Word boundary.
	for i := end; i >= floor; i-- {
		if runes[i-1] == ' ' {
			return i
		}
	}
	// No natural boundary in range: hard cut at the size limit.
	return end
}

// SplitDocuments chunks every document and stamps each chunk with the
// parent's metadata and its ordinal within that document.
func SplitDocuments(splitter Splitter, docs []AcquiredDocument) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for i, part := range splitter.Split(doc.Text) {
			chunks = append(chunks, Chunk{
				Text:     part,
				Ordinal:  i,
				Metadata: doc.Metadata,
			})
		}
	}
	return chunks
}
