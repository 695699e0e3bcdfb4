package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"rag-chatbot/internal/domain"
	"rag-chatbot/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAnswerFixture(ready bool) (*mockSessionRepository, *mockVectorEncoder, *mockVectorIndex, *mockLLMClient, usecase.GenerateAnswerUsecase) {
	sessions := new(mockSessionRepository)
	encoder := new(mockVectorEncoder)
	index := new(mockVectorIndex)
	llm := new(mockLLMClient)

	uc := usecase.NewGenerateAnswerUsecase(
		sessions, encoder, index, llm,
		usecase.NewGroundedPromptBuilder(),
		usecase.NewIndexState(ready),
		testCollection, 3, slog.Default(),
	)
	return sessions, encoder, index, llm, uc
}

func TestGenerateAnswer_NotReadyBeforeFirstIngestion(t *testing.T) {
	_, _, _, llm, uc := newAnswerFixture(false)

	answer, err := uc.Execute(context.Background(), "what happened today?", "s1")
	require.NoError(t, err)
	assert.Equal(t, usecase.MsgNotReady, answer)
	llm.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAnswer_StoreOutagePropagates(t *testing.T) {
	sessions, _, _, llm, uc := newAnswerFixture(true)

	sessions.On("Read", mock.Anything, "s1").Return(nil,
		fmt.Errorf("dial redis: %w", domain.ErrStoreUnavailable))

	_, err := uc.Execute(context.Background(), "query", "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	llm.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAnswer_Success(t *testing.T) {
	sessions, encoder, index, llm, uc := newAnswerFixture(true)

	sessions.On("Read", mock.Anything, "s1").Return([]domain.Message{}, nil)
	encoder.On("Encode", mock.Anything, []string{"what happened?"}).Return([][]float32{{0.1, 0.2}}, nil)
	index.On("Search", mock.Anything, testCollection, []float32{0.1, 0.2}, 3).Return([]domain.RetrievedChunk{
		{
			Text: "A thing happened.",
			Metadata: domain.DocumentMetadata{
				SourceTitle:  "BBC News",
				ArticleURL:   "http://example.com/a",
				ArticleTitle: "Thing happens",
			},
			Score: 0.92,
		},
	}, nil)
	llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(&domain.ChatResult{
		Text: "A thing happened today [1].\n\nSources:\n[1] Thing happens",
	}, nil)

	answer, err := uc.Execute(context.Background(), "what happened?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "A thing happened today [1].\n\nSources:\n[1] Thing happens", answer)

	// The retrieved chunk and its citation reach the prompt.
	llm.AssertCalled(t, "Chat", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "[1] A thing happened.") &&
			strings.Contains(prompt, "Thing happens — BBC News (http://example.com/a)") &&
			strings.Contains(prompt, "what happened?")
	}))
}

func TestGenerateAnswer_HistoryFoldedToLastTenWithRoles(t *testing.T) {
	sessions, encoder, index, llm, uc := newAnswerFixture(true)

	var stored []domain.Message
	for i := 0; i < 12; i++ {
		sender := domain.SenderUser
		if i%2 == 1 {
			sender = domain.SenderBot
		}
		stored = append(stored, domain.Message{
			ID:      fmt.Sprintf("m%d", i),
			Sender:  sender,
			Content: fmt.Sprintf("turn %d", i),
		})
	}
	sessions.On("Read", mock.Anything, "s1").Return(stored, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.5}}, nil)
	index.On("Search", mock.Anything, testCollection, mock.Anything, 3).Return([]domain.RetrievedChunk{}, nil)

	var captured []domain.ChatMessage
	llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.ChatMessage)
	}).Return(&domain.ChatResult{Text: "ok"}, nil)

	_, err := uc.Execute(context.Background(), "query", "s1")
	require.NoError(t, err)

	require.Len(t, captured, 10)
	assert.Equal(t, "turn 2", captured[0].Content)
	assert.Equal(t, domain.RoleUser, captured[0].Role)
	assert.Equal(t, domain.RoleModel, captured[1].Role)
	assert.Equal(t, "turn 11", captured[9].Content)
	assert.Equal(t, domain.RoleModel, captured[9].Role)
}

func TestGenerateAnswer_BlockedResponse(t *testing.T) {
	sessions, encoder, index, llm, uc := newAnswerFixture(true)

	sessions.On("Read", mock.Anything, "s1").Return([]domain.Message{}, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.5}}, nil)
	index.On("Search", mock.Anything, testCollection, mock.Anything, 3).Return([]domain.RetrievedChunk{}, nil)
	llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(&domain.ChatResult{
		Blocked:     true,
		BlockReason: "SAFETY",
	}, nil)

	answer, err := uc.Execute(context.Background(), "query", "s1")
	require.NoError(t, err)
	assert.Contains(t, answer, usecase.MsgBlockedPrefix)
	assert.Contains(t, answer, "SAFETY")
	// The three terminal shapes stay distinguishable.
	assert.NotEqual(t, usecase.MsgGenericError, answer)
	assert.NotEqual(t, usecase.MsgNotReady, answer)
}

func TestGenerateAnswer_ModelFailureReturnsGenericApology(t *testing.T) {
	sessions, encoder, index, llm, uc := newAnswerFixture(true)

	sessions.On("Read", mock.Anything, "s1").Return([]domain.Message{}, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.5}}, nil)
	index.On("Search", mock.Anything, testCollection, mock.Anything, 3).Return([]domain.RetrievedChunk{}, nil)
	llm.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("context deadline exceeded"))

	answer, err := uc.Execute(context.Background(), "query", "s1")
	require.NoError(t, err)
	assert.Equal(t, usecase.MsgGenericError, answer)
}

func TestGenerateAnswer_RetrievalFailureReturnsGenericApology(t *testing.T) {
	sessions, encoder, index, llm, uc := newAnswerFixture(true)

	sessions.On("Read", mock.Anything, "s1").Return([]domain.Message{}, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.5}}, nil)
	index.On("Search", mock.Anything, testCollection, mock.Anything, 3).Return(nil, errors.New("index query failed"))

	answer, err := uc.Execute(context.Background(), "query", "s1")
	require.NoError(t, err)
	assert.Equal(t, usecase.MsgGenericError, answer)
	llm.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
}
