package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-chatbot/internal/adapter/llm"
	"rag-chatbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_ChatSendsHistoryAndPrompt(t *testing.T) {
	var gotPath string
	var gotKey string
	var gotBody struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "The bank held rates."}]}, "finishReason": "STOP"}
			]
		}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.URL, "gemini-2.0-flash", "secret", 5, nil)
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleModel, Content: "hi, ask me about the news"},
	}

	result, err := client.Chat(context.Background(), history, "what did the bank do?")
	require.NoError(t, err)
	assert.Equal(t, "The bank held rates.", result.Text)
	assert.False(t, result.Blocked)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, gotBody.Contents, 3)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "model", gotBody.Contents[1].Role)
	assert.Equal(t, "user", gotBody.Contents[2].Role)
	assert.Equal(t, "what did the bank do?", gotBody.Contents[2].Parts[0].Text)
}

func TestGeminiClient_PromptBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback": {"blockReason": "SAFETY"}}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.URL, "gemini-2.0-flash", "k", 5, nil)
	result, err := client.Chat(context.Background(), nil, "blocked prompt")
	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.Equal(t, "SAFETY", result.BlockReason)
}

func TestGeminiClient_CandidateBlockedBySafety(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}]
		}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.URL, "gemini-2.0-flash", "k", 5, nil)
	result, err := client.Chat(context.Background(), nil, "prompt")
	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.Equal(t, "SAFETY", result.BlockReason)
}

func TestGeminiClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.URL, "gemini-2.0-flash", "k", 5, nil)
	_, err := client.Chat(context.Background(), nil, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	client := llm.NewGeminiClient(srv.URL, "gemini-2.0-flash", "k", 5, nil)
	_, err := client.Chat(context.Background(), nil, "prompt")
	assert.Error(t, err)
}
