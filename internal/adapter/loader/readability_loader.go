package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"

	"rag-chatbot/internal/domain"
	"rag-chatbot/internal/infra/ratelimit"
)

const loaderUserAgent = "Mozilla/5.0 (compatible; rag-chatbot/1.0; news reader)"

// ReadabilityLoader downloads an article page and extracts its readable
// body text, stripping navigation, ads and boilerplate.
type ReadabilityLoader struct {
	client  *http.Client
	limiter *ratelimit.HostLimiter
	logger  *slog.Logger
}

func NewReadabilityLoader(client *http.Client, limiter *ratelimit.HostLimiter, logger *slog.Logger) *ReadabilityLoader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadabilityLoader{client: client, limiter: limiter, logger: logger}
}

// Load fetches the page behind link and returns its extracted text as a
// single document. Pages whose extraction yields no text are treated as
// a failed load so the caller can count them.
func (l *ReadabilityLoader) Load(ctx context.Context, link string) ([]domain.AcquiredDocument, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx, link); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s: %w", link, err)
		}
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid article URL %s: %w", link, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", link, err)
	}
	req.Header.Set("User-Agent", loaderUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, link)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article %s: %w", link, err)
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return nil, fmt.Errorf("failed to render article text %s: %w", link, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, fmt.Errorf("no readable content in %s", link)
	}

	l.logger.Info("article_loaded",
		slog.String("url", link),
		slog.Int("text_length", len(text)),
	)
	return []domain.AcquiredDocument{{Text: text}}, nil
}

var _ domain.ArticleLoader = (*ReadabilityLoader)(nil)
