package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rag-chatbot/internal/domain"
)

// JinaEmbedder calls the Jina AI embeddings API (OpenAI-compatible
// /v1/embeddings shape).
type JinaEmbedder struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

func NewJinaEmbedder(baseURL, model, apiKey string, timeoutSeconds int) *JinaEmbedder {
	timeout := 60 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &JinaEmbedder{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *JinaEmbedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	slog.Info("jina_embed_started",
		slog.Int("text_count", len(texts)),
		slog.String("model", e.Model),
	)
	start := time.Now()

	reqBody := embedRequest{
		Model: e.Model,
		Input: texts,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", e.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		slog.Error("jina_embed_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Error("jina_embed_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("embeddings API returned status: %d", resp.StatusCode)
	}

	var respBody embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The API documents data in request order, but index is authoritative.
	embeddings := make([][]float32, len(respBody.Data))
	for i, item := range respBody.Data {
		pos := item.Index
		if pos < 0 || pos >= len(embeddings) {
			pos = i
		}
		embeddings[pos] = item.Embedding
	}

	slog.Info("jina_embed_completed",
		slog.Int("embedding_count", len(embeddings)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return embeddings, nil
}

func (e *JinaEmbedder) Version() string {
	return e.Model
}

var _ domain.VectorEncoder = (*JinaEmbedder)(nil)
