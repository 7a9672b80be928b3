package outreach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"coldoutreach/internal/llm"
	"coldoutreach/internal/metrics"
	"coldoutreach/internal/record"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator answers from a script keyed by business name.
type stubGenerator struct {
	prompts []string
	fail    map[string]error
	answer  func(prompt string) string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	for name, err := range s.fail {
		if strings.Contains(prompt, "Business Name: "+name+"\n") {
			return "", err
		}
	}
	if s.answer != nil {
		return s.answer(prompt), nil
	}
	return "  generated text \n", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func businesses(names ...string) []*record.Record {
	out := make([]*record.Record, 0, len(names))
	for _, name := range names {
		out = append(out, record.FromStrings(FieldBusinessName, name))
	}
	return out
}

func TestGeneratePreservesLengthAndOrder(t *testing.T) {
	gen := &stubGenerator{answer: func(prompt string) string {
		line := strings.SplitN(prompt[strings.Index(prompt, "Business Name: "):], "\n", 2)[0]
		return strings.TrimPrefix(line, "Business Name: ")
	}}
	svc := NewService(ServiceDeps{Generator: gen, Logger: discardLogger()})

	results, err := svc.Generate(context.Background(), Request{
		Type:       ContentMessage,
		Businesses: businesses("A", "B", "C", "D"),
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, name := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, name, results[i].Text(FieldBusinessName))
		assert.Equal(t, name, results[i].Text(FieldGeneratedMessage))
	}
	assert.Len(t, gen.prompts, 4)
}

func TestGenerateIsolatesFailures(t *testing.T) {
	gen := &stubGenerator{fail: map[string]error{"B": errors.New("quota exceeded")}}
	m := metrics.New()
	svc := NewService(ServiceDeps{Generator: gen, Logger: discardLogger(), Metrics: m})

	results, err := svc.Generate(context.Background(), Request{
		Type:       ContentEmail,
		Businesses: businesses("A", "B", "C"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, rec := range results {
		hasText := rec.Has(FieldGeneratedEmail)
		hasErr := rec.Has(FieldGenerationError)
		assert.True(t, hasText != hasErr, "record %d must carry exactly one of the fields", i)
	}
	assert.Equal(t, "generated text", results[0].Text(FieldGeneratedEmail))
	assert.Contains(t, results[1].Text(FieldGenerationError), "quota exceeded")
	assert.Equal(t, "generated text", results[2].Text(FieldGeneratedEmail))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GeneratedItems.WithLabelValues("email", metrics.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeneratedItems.WithLabelValues("email", metrics.StatusError)))
}

func TestGenerateEmptyAnswerIsError(t *testing.T) {
	gen := &stubGenerator{answer: func(string) string { return "  \n " }}
	svc := NewService(ServiceDeps{Generator: gen, Logger: discardLogger()})

	results, err := svc.Generate(context.Background(), Request{Type: ContentMessage, Businesses: businesses("A")})
	require.NoError(t, err)
	assert.False(t, results[0].Has(FieldGeneratedMessage))
	assert.Contains(t, results[0].Text(FieldGenerationError), llm.ErrEmptyResponse.Error())
}

func TestGenerateReplacesStaleFields(t *testing.T) {
	gen := &stubGenerator{fail: map[string]error{"Broken": errors.New("boom")}}
	svc := NewService(ServiceDeps{Generator: gen, Logger: discardLogger()})

	ok := record.FromStrings(FieldBusinessName, "Fine", FieldGeneratedEmail, "", FieldGenerationError, "old failure")
	bad := record.FromStrings(FieldBusinessName, "Broken", FieldGeneratedEmail, "", FieldGeneratedMessage, "")

	results, err := svc.Generate(context.Background(), Request{
		Type:       ContentEmail,
		Businesses: []*record.Record{ok, bad},
	})
	require.NoError(t, err)

	assert.Equal(t, "generated text", results[0].Text(FieldGeneratedEmail))
	assert.False(t, results[0].Has(FieldGenerationError))

	assert.False(t, results[1].Has(FieldGeneratedEmail))
	assert.True(t, results[1].Has(FieldGenerationError))
	// Fields for the other content type are passthrough data.
	assert.True(t, results[1].Has(FieldGeneratedMessage))
}

func TestGenerateSenderDetailsPrecedence(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(ServiceDeps{
		Generator:         gen,
		Logger:            discardLogger(),
		DefaultSenderRole: "default role",
		DefaultDemoSite:   "https://default.example.com",
	})

	withOwn := record.FromStrings(FieldBusinessName, "Own", FieldSenderRole, "record role", FieldDemoSite, "https://own.example.com")
	plain := record.FromStrings(FieldBusinessName, "Plain")

	_, err := svc.Generate(context.Background(), Request{
		Type:       ContentEmail,
		Businesses: []*record.Record{withOwn, plain},
		SenderRole: "request role",
	})
	require.NoError(t, err)
	require.Len(t, gen.prompts, 2)

	assert.Contains(t, gen.prompts[0], "record role")
	assert.Contains(t, gen.prompts[0], "https://own.example.com")
	assert.Contains(t, gen.prompts[1], "request role")
	assert.Contains(t, gen.prompts[1], "https://default.example.com")
	assert.NotContains(t, gen.prompts[1], "default role")
}

func TestGenerateWithoutGenerator(t *testing.T) {
	svc := NewService(ServiceDeps{GeneratorErr: fmt.Errorf("gemini: %w", llm.ErrNotConfigured)})

	_, err := svc.Generate(context.Background(), Request{Type: ContentEmail, Businesses: businesses("A")})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)

	assert.ErrorIs(t, NewService(ServiceDeps{}).Ready(), llm.ErrNotConfigured)
}

func TestDescribeContextErrors(t *testing.T) {
	assert.Contains(t, describe(context.DeadlineExceeded), "timed out")
	assert.Contains(t, describe(fmt.Errorf("call: %w", context.Canceled)), "cancelled")
	assert.Equal(t, "Failed to generate content: boom", describe(errors.New("boom")))
}
