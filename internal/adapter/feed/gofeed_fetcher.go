package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"

	"rag-chatbot/internal/domain"
)

// GofeedFetcher parses RSS/Atom feeds into their entries.
type GofeedFetcher struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewGofeedFetcher builds a fetcher. A nil client keeps gofeed's default.
func NewGofeedFetcher(client *http.Client, logger *slog.Logger) *GofeedFetcher {
	fp := gofeed.NewParser()
	if client != nil {
		fp.Client = client
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GofeedFetcher{parser: fp, logger: logger}
}

// Fetch downloads and parses the feed, returning entries in published
// order. Entries without a link are dropped since there is nothing to
// load behind them.
func (f *GofeedFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		entries = append(entries, domain.FeedEntry{Title: item.Title, Link: item.Link})
	}

	f.logger.Info("feed_collected",
		slog.String("feed_title", parsed.Title),
		slog.Int("entry_count", len(entries)),
	)
	return entries, nil
}

var _ domain.FeedFetcher = (*GofeedFetcher)(nil)
