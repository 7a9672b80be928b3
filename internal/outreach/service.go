package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coldoutreach/internal/llm"
	"coldoutreach/internal/metrics"
	"coldoutreach/internal/record"
)

// Request is a decoded generation request.
type Request struct {
	Type       ContentType
	Businesses []*record.Record
	SenderRole string
	DemoSite   string
}

// Outcome is the per-record result: exactly one of Text or Err is set.
type Outcome struct {
	Text string
	Err  error
}

type ServiceDeps struct {
	// Generator may be nil when the provider is not configured; see GeneratorErr.
	Generator    llm.Generator
	GeneratorErr error
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	// Defaults apply when neither the request nor the record carries a value.
	DefaultSenderRole string
	DefaultDemoSite   string
	Now               func() time.Time
}

type Service struct {
	gen               llm.Generator
	genErr            error
	logger            *slog.Logger
	metrics           *metrics.Metrics
	defaultSenderRole string
	defaultDemoSite   string
	now               func() time.Time
}

func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		gen:               deps.Generator,
		genErr:            deps.GeneratorErr,
		logger:            logger,
		metrics:           deps.Metrics,
		defaultSenderRole: deps.DefaultSenderRole,
		defaultDemoSite:   deps.DefaultDemoSite,
		now:               now,
	}
}

// Ready reports whether a generator is available.
func (s *Service) Ready() error {
	if s.gen != nil {
		return nil
	}
	if s.genErr != nil {
		return s.genErr
	}
	return llm.ErrNotConfigured
}

// Generate enriches every business in place, in input order, and returns
// them. A failed record gets generation_error and never stops the loop.
func (s *Service) Generate(ctx context.Context, req Request) ([]*record.Record, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	outcomes := s.Outcomes(ctx, req)
	field := req.Type.OutputField()
	for i, rec := range req.Businesses {
		apply(rec, field, outcomes[i])
	}
	return req.Businesses, nil
}

// Outcomes runs the generator once per business, sequentially.
func (s *Service) Outcomes(ctx context.Context, req Request) []Outcome {
	out := make([]Outcome, len(req.Businesses))
	for i, rec := range req.Businesses {
		prompt := BuildPrompt(req.Type, s.promptInput(req, rec))

		start := s.now()
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				err = llm.ErrEmptyResponse
			}
		}
		s.metrics.ObserveGeneration(string(req.Type), s.now().Sub(start), err)

		if err != nil {
			s.logger.Warn("generation failed",
				slog.Int("index", i),
				slog.String("business", rec.Text(FieldBusinessName)),
				slog.String("type", string(req.Type)),
				slog.String("error", err.Error()))
			out[i] = Outcome{Err: err}
			continue
		}
		out[i] = Outcome{Text: text}
	}
	return out
}

func (s *Service) promptInput(req Request, rec *record.Record) PromptInput {
	return PromptInput{
		BusinessName:        rec.Text(FieldBusinessName),
		BusinessDescription: rec.Text(FieldBusinessDescription),
		AddressRegion:       rec.Text(FieldAddressRegion),
		SenderRole:          firstNonBlank(rec.Text(FieldSenderRole), req.SenderRole, s.defaultSenderRole),
		DemoSite:            firstNonBlank(rec.Text(FieldDemoSite), req.DemoSite, s.defaultDemoSite),
	}
}

// apply writes the outcome so the record carries the generated field or
// generation_error, never both.
func apply(rec *record.Record, field string, o Outcome) {
	if o.Err != nil {
		rec.Delete(field)
		rec.Set(FieldGenerationError, describe(o.Err))
		return
	}
	rec.Delete(FieldGenerationError)
	rec.Set(field, o.Text)
}

func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Failed to generate content: the generation service timed out"
	case errors.Is(err, context.Canceled):
		return "Failed to generate content: request was cancelled"
	default:
		return fmt.Sprintf("Failed to generate content: %v", err)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
