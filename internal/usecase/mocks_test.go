package usecase_test

import (
	"context"

	"rag-chatbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockFeedFetcher struct {
	mock.Mock
}

func (m *mockFeedFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.FeedEntry, error) {
	args := m.Called(ctx, feedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeedEntry), args.Error(1)
}

type mockArticleLoader struct {
	mock.Mock
}

func (m *mockArticleLoader) Load(ctx context.Context, link string) ([]domain.AcquiredDocument, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AcquiredDocument), args.Error(1)
}

type mockVectorEncoder struct {
	mock.Mock
}

func (m *mockVectorEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *mockVectorEncoder) Version() string {
	return "mock"
}

type mockVectorIndex struct {
	mock.Mock
}

func (m *mockVectorIndex) Replace(ctx context.Context, collection string, entries []domain.IndexEntry) error {
	args := m.Called(ctx, collection, entries)
	return args.Error(0)
}

func (m *mockVectorIndex) Search(ctx context.Context, collection string, query []float32, k int) ([]domain.RetrievedChunk, error) {
	args := m.Called(ctx, collection, query, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedChunk), args.Error(1)
}

func (m *mockVectorIndex) HasCollection(ctx context.Context, collection string) (bool, error) {
	args := m.Called(ctx, collection)
	return args.Bool(0), args.Error(1)
}

type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) Chat(ctx context.Context, history []domain.ChatMessage, prompt string) (*domain.ChatResult, error) {
	args := m.Called(ctx, history, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatResult), args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepository) Append(ctx context.Context, id string, msg domain.Message) error {
	args := m.Called(ctx, id, msg)
	return args.Error(0)
}

func (m *mockSessionRepository) Read(ctx context.Context, id string) ([]domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockSessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepository) ListAll(ctx context.Context) ([]domain.SessionInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionInfo), args.Error(1)
}

func (m *mockSessionRepository) DeleteAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
