package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coldoutreach/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &paths
}

func TestGeminiGenerate(t *testing.T) {
	server, paths := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Hello "},{"text":"Acme!\n"}]},"finishReason":"STOP"}]}`)

	g, err := NewGemini(context.Background(), config.GeminiConfig{
		APIKey:  "key",
		Model:   "models/gemini-test",
		BaseURL: server.URL,
	}, server.Client())
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", g.Model())

	got, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello Acme!", got)
	require.Len(t, *paths, 1)
	assert.True(t, strings.HasSuffix((*paths)[0], "gemini-test:generateContent"), (*paths)[0])
}

func TestGeminiEmptyResponseIsError(t *testing.T) {
	server, _ := newGeminiServer(t, http.StatusOK,
		`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)

	g, err := NewGemini(context.Background(), config.GeminiConfig{
		APIKey:  "key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	}, server.Client())
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiAPIErrorSurfaces(t *testing.T) {
	server, paths := newGeminiServer(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)

	g, err := NewGemini(context.Background(), config.GeminiConfig{
		APIKey:  "key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	}, server.Client())
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Len(t, *paths, 1)
}

func TestNewSelectsProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(context.Background(), config.Config{LLMProvider: config.ProviderGemini}, nil, logger)
	assert.ErrorIs(t, err, ErrNotConfigured)

	gen, err := New(context.Background(), config.Config{
		LLMProvider: config.ProviderOpenRouter,
		OpenRouter:  config.OpenRouterConfig{APIKey: "k", BaseURL: "http://localhost", DefaultModel: "m"},
	}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &OpenRouterClient{}, gen)

	_, err = New(context.Background(), config.Config{LLMProvider: "other"}, nil, logger)
	assert.Error(t, err)
}

func TestGeneratorFunc(t *testing.T) {
	var gen Generator = GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return strings.ToUpper(prompt), nil
	})
	got, err := gen.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", got)
}
