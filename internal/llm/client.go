package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means the provider has no credentials; nothing can be generated.
	ErrNotConfigured = errors.New("generation service is not configured")
	// ErrEmptyResponse means the model answered with no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Generator превращает промпт в текст. Реализации не делают повторных попыток.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
