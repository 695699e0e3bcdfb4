package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"rag-chatbot/internal/adapter/chat_http"
	"rag-chatbot/internal/adapter/embedder"
	"rag-chatbot/internal/adapter/feed"
	"rag-chatbot/internal/adapter/llm"
	"rag-chatbot/internal/adapter/loader"
	"rag-chatbot/internal/adapter/repository"
	"rag-chatbot/internal/adapter/sessionrepo"
	"rag-chatbot/internal/domain"
	"rag-chatbot/internal/infra/config"
	"rag-chatbot/internal/infra/httpclient"
	"rag-chatbot/internal/infra/logger"
	"rag-chatbot/internal/infra/ratelimit"
	"rag-chatbot/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Sessions domain.SessionRepository
	Index    domain.VectorIndex

	IngestUsecase usecase.IngestNewsUsecase
	AnswerUsecase usecase.GenerateAnswerUsecase
	StatusUsecase usecase.SystemStatusUsecase

	Handler       *chat_http.Handler
	ContextLogger *logger.ContextLogger
	Sources       []domain.Source
}

// NewApplicationComponents wires all dependencies from config, the
// database pool, and the Redis client.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, log *slog.Logger) (*ApplicationComponents, error) {
	newsSources, err := cfg.NewsSources()
	if err != nil {
		return nil, err
	}
	sources := make([]domain.Source, len(newsSources))
	for i, src := range newsSources {
		sources[i] = domain.Source{Title: src.Title, URL: src.URL, Description: src.Description}
	}

	// Repositories
	sessions := sessionrepo.NewRedisSessionRepository(
		redisClient, time.Duration(cfg.SessionTTLSeconds)*time.Second, log)
	vectorIndex := repository.NewPgvectorIndex(pool, log)

	// Shared HTTP clients with connection pooling
	feedHTTP := httpclient.NewPooledClient(30 * time.Second)
	articleHTTP := httpclient.NewPooledClient(60 * time.Second)

	// External clients
	feedFetcher := feed.NewGofeedFetcher(feedHTTP, log)
	hostLimiter := ratelimit.NewHostLimiter(time.Duration(cfg.FetchIntervalMS)*time.Millisecond, 1)
	articleLoader := loader.NewReadabilityLoader(articleHTTP, hostLimiter, log)
	vectorEncoder := embedder.NewJinaEmbedder(cfg.JinaBaseURL, cfg.EmbeddingModel, cfg.JinaAPIKey, cfg.EmbedTimeout)
	llmClient := llm.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.LLMTimeout, log)

	// Domain services
	splitter := domain.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	// A collection surviving from a previous run can serve answers
	// before the first ingestion of this process completes.
	hydrated, err := vectorIndex.HasCollection(ctx, cfg.Collection)
	if err != nil {
		log.Warn("index_hydration_check_failed", slog.String("error", err.Error()))
		hydrated = false
	}
	state := usecase.NewIndexState(hydrated)
	tracker := usecase.NewStatusTracker()

	// Usecases
	ingestUsecase := usecase.NewIngestNewsUsecase(
		sources, feedFetcher, articleLoader, splitter, vectorEncoder, vectorIndex,
		state, tracker, cfg.Collection, cfg.EntriesPerSource, cfg.FetchConcurrency, log,
	)
	answerUsecase := usecase.NewGenerateAnswerUsecase(
		sessions, vectorEncoder, vectorIndex, llmClient,
		usecase.NewGroundedPromptBuilder(), state, cfg.Collection, cfg.TopK, log,
	)
	statusUsecase := usecase.NewSystemStatusUsecase(state, tracker, len(sources))

	handler := chat_http.NewHandler(answerUsecase, ingestUsecase, statusUsecase, sessions, log)

	return &ApplicationComponents{
		Sessions:      sessions,
		Index:         vectorIndex,
		IngestUsecase: ingestUsecase,
		AnswerUsecase: answerUsecase,
		StatusUsecase: statusUsecase,
		Handler:       handler,
		ContextLogger: logger.NewContextLogger("rag-chatbot"),
		Sources:       sources,
	}, nil
}
