package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rag-chatbot/internal/domain"
)

// Fixed user-facing outcomes. Tests and clients distinguish the three
// terminal shapes (ready answer, policy block, generic failure) by these
// markers; raw provider errors never reach the caller.
const (
	// MsgNotReady is returned before the first successful ingestion.
	MsgNotReady = "I'm not ready yet. Please try again in a few moments while I load the news data."
	// MsgBlockedPrefix opens the policy-block reply.
	MsgBlockedPrefix = "I can't help with that request"
	// MsgGenericError is the catch-all reply for any other generation failure.
	MsgGenericError = "I'm sorry, I encountered an error while processing your request. Please try again."
)

// historyLimit caps how many prior turns seed the model's context.
const historyLimit = 10

// GenerateAnswerUsecase answers a query grounded in the vector index and
// the session's conversational history. It writes nothing: persisting the
// exchanged messages is the transport layer's job.
type GenerateAnswerUsecase interface {
	Execute(ctx context.Context, query, sessionID string) (string, error)
}

type generateAnswerUsecase struct {
	sessions      domain.SessionRepository
	encoder       domain.VectorEncoder
	index         domain.VectorIndex
	llm           domain.LLMClient
	promptBuilder PromptBuilder
	state         *IndexState
	collection    string
	topK          int
	logger        *slog.Logger
}

// NewGenerateAnswerUsecase wires the answer path.
func NewGenerateAnswerUsecase(
	sessions domain.SessionRepository,
	encoder domain.VectorEncoder,
	index domain.VectorIndex,
	llm domain.LLMClient,
	promptBuilder PromptBuilder,
	state *IndexState,
	collection string,
	topK int,
	logger *slog.Logger,
) GenerateAnswerUsecase {
	if topK <= 0 {
		topK = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generateAnswerUsecase{
		sessions:      sessions,
		encoder:       encoder,
		index:         index,
		llm:           llm,
		promptBuilder: promptBuilder,
		state:         state,
		collection:    collection,
		topK:          topK,
		logger:        logger,
	}
}

func (u *generateAnswerUsecase) Execute(ctx context.Context, query, sessionID string) (string, error) {
	if !u.state.Ready() {
		return MsgNotReady, nil
	}

	// A store outage is a service failure, not an empty history.
	messages, err := u.sessions.Read(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session history: %w", err)
	}
	history := foldHistory(messages, historyLimit)

	vectors, err := u.encoder.Encode(ctx, []string{query})
	if err != nil || len(vectors) != 1 {
		u.logger.Error("query_embed_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		return MsgGenericError, nil
	}

	hits, err := u.index.Search(ctx, u.collection, vectors[0], u.topK)
	if err != nil {
		u.logger.Error("retrieval_failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return MsgGenericError, nil
	}

	contexts := make([]PromptContext, len(hits))
	for i, hit := range hits {
		contexts[i] = PromptContext{
			Marker:      i + 1,
			Title:       hit.Metadata.ArticleTitle,
			SourceTitle: hit.Metadata.SourceTitle,
			URL:         hit.Metadata.ArticleURL,
			ChunkText:   hit.Text,
		}
	}

	prompt, err := u.promptBuilder.Build(PromptInput{Query: query, Contexts: contexts})
	if err != nil {
		u.logger.Error("prompt_build_failed", slog.String("error", err.Error()))
		return MsgGenericError, nil
	}

	result, err := u.llm.Chat(ctx, history, prompt)
	if err != nil {
		u.logger.Error("llm_call_failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return MsgGenericError, nil
	}
	if result.Blocked {
		u.logger.Warn("llm_response_blocked",
			slog.String("session_id", sessionID),
			slog.String("reason", result.BlockReason),
		)
		return blockedMessage(result.BlockReason), nil
	}

	return result.Text, nil
}

// foldHistory maps the tail of the stored conversation onto model roles,
// preserving order. Unknown senders are dropped.
func foldHistory(messages []domain.Message, limit int) []domain.ChatMessage {
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	history := make([]domain.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Sender {
		case domain.SenderUser:
			role = domain.RoleUser
		case domain.SenderBot:
			role = domain.RoleModel
		default:
			continue
		}
		history = append(history, domain.ChatMessage{Role: role, Content: msg.Content})
	}
	return history
}

func blockedMessage(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return MsgBlockedPrefix + ". Please try rephrasing your question."
	}
	return fmt.Sprintf("%s (blocked: %s). Please try rephrasing your question.", MsgBlockedPrefix, reason)
}
