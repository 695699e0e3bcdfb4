package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// NewsSource is one feed to ingest. Title becomes the citation label.
type NewsSource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisURL          string
	SessionTTLSeconds int

	JinaBaseURL    string
	JinaAPIKey     string
	EmbeddingModel string
	EmbedTimeout   int

	GeminiBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	LLMTimeout    int

	ChunkSize        int
	ChunkOverlap     int
	TopK             int
	EntriesPerSource int
	Collection       string
	FetchConcurrency int
	FetchIntervalMS  int

	NewsSourcesFile string
	IngestOnStartup bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8000"),

		DBHost:     getEnv("DB_HOST", "rag-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rag_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "rag_password"),
		DBName:     getEnv("DB_NAME", "rag_db"),

		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTLSeconds: getEnvInt("SESSION_TTL", 86400),

		JinaBaseURL:    getEnv("JINA_BASE_URL", "https://api.jina.ai"),
		JinaAPIKey:     getSecret("JINA_API_KEY", "JINA_API_KEY_FILE", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "jina-embeddings-v3"),
		EmbedTimeout:   getEnvInt("EMBED_TIMEOUT_SECONDS", 60),

		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey:  getSecret("GEMINI_API_KEY", "GEMINI_API_KEY_FILE", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:    getEnvInt("LLM_TIMEOUT_SECONDS", 120),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 100),
		TopK:             getEnvInt("RAG_NUM_CHUNKS", 3),
		EntriesPerSource: getEnvInt("NEWS_ENTRIES_PER_SOURCE", 10),
		Collection:       getEnv("VECTOR_COLLECTION", "news_articles"),
		FetchConcurrency: getEnvInt("INGEST_CONCURRENCY", 4),
		FetchIntervalMS:  getEnvInt("FETCH_INTERVAL_MS", 500),

		NewsSourcesFile: getEnv("NEWS_SOURCES_FILE", ""),
		IngestOnStartup: getEnvBool("INGEST_ON_STARTUP", true),
	}
}

// DatabaseURL assembles the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// DefaultNewsSources is the feed set used when no override file is set.
func DefaultNewsSources() []NewsSource {
	return []NewsSource{
		{Title: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml", Description: "BBC News top stories"},
		{Title: "CNN", URL: "http://rss.cnn.com/rss/cnn_topstories.rss", Description: "CNN top stories"},
		{Title: "The New York Times", URL: "https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml", Description: "NYT homepage"},
		{Title: "The Guardian", URL: "https://www.theguardian.com/world/rss", Description: "Guardian world news"},
		{Title: "NPR", URL: "https://feeds.npr.org/1001/rss.xml", Description: "NPR news"},
	}
}

// NewsSources returns the configured feed set: the JSON file named by
// NEWS_SOURCES_FILE when present, the built-in defaults otherwise.
func (c *Config) NewsSources() ([]NewsSource, error) {
	if c.NewsSourcesFile == "" {
		return DefaultNewsSources(), nil
	}

	data, err := os.ReadFile(c.NewsSourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read news sources file: %w", err)
	}

	var sources []NewsSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse news sources file: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("news sources file %s is empty", c.NewsSourcesFile)
	}
	for i, src := range sources {
		if src.Title == "" || src.URL == "" {
			return nil, fmt.Errorf("news source %d is missing title or url", i)
		}
	}
	return sources, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
