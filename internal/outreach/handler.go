package outreach

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coldoutreach/internal/httpserver"
	"coldoutreach/internal/record"
	"coldoutreach/internal/schema"

	"github.com/tidwall/gjson"
)

const (
	maxBodyBytes = 10 << 20

	msgInvalidBusinesses = "Invalid data format. Expected an array of businesses."
)

type generateResponse struct {
	Results []*record.Record `json:"results"`
}

type HandlerDeps struct {
	Service *Service
	Logger  *slog.Logger
}

// Handler serves POST /generate/.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: deps.Service,
		logger:  logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpserver.WriteJSONError(w, http.StatusRequestEntityTooLarge, "too_large", "request body is too large")
			return
		}
		h.fail(w, fmt.Errorf("read body: %w", err))
		return
	}

	res, err := schema.Validate(schema.ContractGenerate, body)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !res.IsValid {
		h.logger.Info("generate request rejected", slog.Any("violations", res.Errors))
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", msgInvalidBusinesses)
		return
	}

	if err := h.service.Ready(); err != nil {
		h.fail(w, err)
		return
	}

	req, err := decodeRequest(body)
	if err != nil {
		h.fail(w, err)
		return
	}

	start := time.Now()
	results, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	failed := 0
	for _, rec := range results {
		if rec.Has(FieldGenerationError) {
			failed++
		}
	}
	h.logger.Info("content generated",
		slog.String("type", string(req.Type)),
		slog.Int("total", len(results)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))

	if err := httpserver.WriteJSON(w, http.StatusOK, generateResponse{Results: results}); err != nil {
		h.logger.Error("write generate response", slog.String("error", err.Error()))
	}
}

// fail aborts the whole request with 500.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("generate request failed", slog.String("error", err.Error()))
	httpserver.WriteJSONError(w, http.StatusInternalServerError, "internal", "An error occurred: "+err.Error())
}

// decodeRequest expects a body that already passed the generate schema.
func decodeRequest(body []byte) (Request, error) {
	top, err := record.Parse(body)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Type:       ContentEmail,
		SenderRole: strings.TrimSpace(top.Text(FieldSenderRole)),
		DemoSite:   strings.TrimSpace(top.Text(FieldDemoSite)),
	}
	if top.Has("type") {
		req.Type = ParseContentType(top.Text("type"))
	}

	raw, _ := top.Raw("businesses")
	items := gjson.ParseBytes(raw).Array()
	req.Businesses = make([]*record.Record, 0, len(items))
	for i, item := range items {
		rec, err := record.FromResult(item)
		if err != nil {
			return Request{}, fmt.Errorf("business %d: %w", i, err)
		}
		req.Businesses = append(req.Businesses, rec)
	}
	return req, nil
}
