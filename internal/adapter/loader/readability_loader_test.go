package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rag-chatbot/internal/adapter/loader"
	"rag-chatbot/internal/infra/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Rates held steady</title></head>
<body>
<nav><a href="/">Home</a><a href="/world">World</a></nav>
<article>
<h1>Rates held steady</h1>
<p>The central bank held interest rates steady on Thursday, citing a cooling labor market and slowing inflation across most sectors of the economy.</p>
<p>Officials signalled that two cuts remain possible before the end of the year, though they emphasised that any move depends on incoming data.</p>
</article>
<footer>Copyright Example News</footer>
</body>
</html>`

func TestReadabilityLoader_ExtractsBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	l := loader.NewReadabilityLoader(srv.Client(), nil, nil)
	docs, err := l.Load(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Contains(t, docs[0].Text, "held interest rates steady")
	assert.Contains(t, docs[0].Text, "two cuts remain possible")
}

func TestReadabilityLoader_Non200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := loader.NewReadabilityLoader(srv.Client(), nil, nil)
	_, err := l.Load(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestReadabilityLoader_RespectsRateLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	limiter := ratelimit.NewHostLimiter(time.Minute, 1)
	l := loader.NewReadabilityLoader(srv.Client(), limiter, nil)

	_, err := l.Load(context.Background(), srv.URL+"/first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Load(ctx, srv.URL+"/second")
	assert.Error(t, err, "second request to the same host must hit the limiter")
}
