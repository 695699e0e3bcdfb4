package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"rag-chatbot/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 86400, cfg.SessionTTLSeconds)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 10, cfg.EntriesPerSource)
	assert.Equal(t, "news_articles", cfg.Collection)
	assert.True(t, cfg.IngestOnStartup)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("RAG_NUM_CHUNKS", "5")
	t.Setenv("INGEST_ON_STARTUP", "false")

	cfg := config.Load()
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 3600, cfg.SessionTTLSeconds)
	assert.Equal(t, 5, cfg.TopK)
	assert.False(t, cfg.IngestOnStartup)
}

func TestLoad_SecretFromFile(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "gemini_key")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-secret\n"), 0o600))
	t.Setenv("GEMINI_API_KEY_FILE", secretFile)

	cfg := config.Load()
	assert.Equal(t, "file-secret", cfg.GeminiAPIKey)
}

func TestLoad_SecretEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "gemini_key")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-secret"), 0o600))
	t.Setenv("GEMINI_API_KEY_FILE", secretFile)
	t.Setenv("GEMINI_API_KEY", "env-secret")

	cfg := config.Load()
	assert.Equal(t, "env-secret", cfg.GeminiAPIKey)
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "h")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "d")

	cfg := config.Load()
	assert.Equal(t, "postgres://u:p@h:5433/d", cfg.DatabaseURL())
}

func TestNewsSources_DefaultsWhenNoFile(t *testing.T) {
	cfg := config.Load()

	sources, err := cfg.NewsSources()
	require.NoError(t, err)
	require.Len(t, sources, 5)
	assert.Equal(t, "BBC News", sources[0].Title)
	for _, src := range sources {
		assert.NotEmpty(t, src.URL)
	}
}

func TestNewsSources_FileOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sources.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"title": "Example", "url": "http://example.com/rss.xml", "description": "test feed"}
	]`), 0o600))
	t.Setenv("NEWS_SOURCES_FILE", file)

	cfg := config.Load()
	sources, err := cfg.NewsSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Example", sources[0].Title)
}

func TestNewsSources_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	t.Setenv("NEWS_SOURCES_FILE", empty)
	_, err := config.Load().NewsSources()
	assert.Error(t, err)

	missingURL := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(missingURL, []byte(`[{"title": "No URL"}]`), 0o600))
	t.Setenv("NEWS_SOURCES_FILE", missingURL)
	_, err = config.Load().NewsSources()
	assert.Error(t, err)

	t.Setenv("NEWS_SOURCES_FILE", filepath.Join(dir, "does-not-exist.json"))
	_, err = config.Load().NewsSources()
	assert.Error(t, err)
}
