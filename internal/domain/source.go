package domain

import "context"

// Source is a configured news feed. Sources are static for the lifetime
// of the process and immutable during an ingestion run.
type Source struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// DocumentMetadata links a document (and every chunk derived from it)
// back to its human-readable provenance.
type DocumentMetadata struct {
	SourceTitle  string `json:"source"`
	ArticleURL   string `json:"url"`
	ArticleTitle string `json:"title"`
}

// AcquiredDocument is one fetched article body plus provenance. A single
// feed entry may yield zero or more documents.
type AcquiredDocument struct {
	Text     string
	Metadata DocumentMetadata
}

// FeedEntry is a single item from a parsed feed.
type FeedEntry struct {
	Title string
	Link  string
}

// FeedFetcher fetches and parses a feed URL into its entries, best-first
// in the order the feed publishes them.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]FeedEntry, error)
}

// ArticleLoader loads the readable body text behind an article link.
// A loader may return zero, one, or several documents per link.
type ArticleLoader interface {
	Load(ctx context.Context, link string) ([]AcquiredDocument, error)
}
