package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rag-chatbot/internal/domain"
)

const generationTemperature = 0.7

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GeminiClient talks to the Gemini generateContent REST endpoint.
type GeminiClient struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
	logger  *slog.Logger
}

func NewGeminiClient(baseURL, model, apiKey string, timeoutSeconds int, logger *slog.Logger) *GeminiClient {
	timeout := 120 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Chat sends the conversation history plus the final prompt and returns
// the model's reply. Safety blocks are reported via ChatResult.Blocked
// rather than an error so the caller can phrase a user-facing refusal.
func (g *GeminiClient) Chat(ctx context.Context, history []domain.ChatMessage, prompt string) (*domain.ChatResult, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, geminiContent{
			Role:  msg.Role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  domain.RoleUser,
		Parts: []geminiPart{{Text: prompt}},
	})

	reqBody := generateRequest{
		Contents:         contents,
		GenerationConfig: generationConfig{Temperature: generationTemperature},
	}
	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.BaseURL, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	start := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		g.logger.Error("gemini_chat_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		g.logger.Error("gemini_chat_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	if genResp.PromptFeedback.BlockReason != "" {
		g.logger.Warn("gemini_prompt_blocked",
			slog.String("reason", genResp.PromptFeedback.BlockReason),
		)
		return &domain.ChatResult{Blocked: true, BlockReason: genResp.PromptFeedback.BlockReason}, nil
	}

	if len(genResp.Candidates) == 0 {
		return nil, fmt.Errorf("generation response contained no candidates")
	}

	candidate := genResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		g.logger.Warn("gemini_candidate_blocked",
			slog.String("reason", candidate.FinishReason),
		)
		return &domain.ChatResult{Blocked: true, BlockReason: candidate.FinishReason}, nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())

	g.logger.Info("gemini_chat_completed",
		slog.Int("history_length", len(history)),
		slog.Int("response_length", len(text)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &domain.ChatResult{Text: text}, nil
}

var _ domain.LLMClient = (*GeminiClient)(nil)
