package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"coldoutreach/internal/config"
)

// New builds the generator selected by cfg.LLMProvider.
func New(ctx context.Context, cfg config.Config, httpClient *http.Client, logger *slog.Logger) (Generator, error) {
	switch cfg.LLMProvider {
	case "", config.ProviderGemini:
		g, err := NewGemini(ctx, cfg.Gemini, httpClient)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("generator ready", slog.String("provider", config.ProviderGemini), slog.String("model", g.Model()))
		}
		return g, nil
	case config.ProviderOpenRouter:
		c, err := NewOpenRouterClient(cfg.OpenRouter, httpClient)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("generator ready", slog.String("provider", config.ProviderOpenRouter), slog.String("model", c.model))
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
