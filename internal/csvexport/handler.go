package csvexport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"coldoutreach/internal/httpserver"
	"coldoutreach/internal/metrics"
	"coldoutreach/internal/record"
	"coldoutreach/internal/schema"

	"github.com/tidwall/gjson"
)

const (
	maxBodyBytes   = 10 << 20
	filenamePrefix = "cold_outreach_"
	filenameLayout = "20060102_150405"
)

type HandlerDeps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Handler serves POST /export_csv/.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, metrics: deps.Metrics, now: now}
}

// Filename is the attachment name for an export made at t.
func Filename(t time.Time) string {
	return filenamePrefix + t.Format(filenameLayout) + ".csv"
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, http.StatusRequestEntityTooLarge, "request body is too large")
			return
		}
		h.fail(w, fmt.Errorf("read body: %w", err))
		return
	}

	res, err := schema.Validate(schema.ContractExport, body)
	if err != nil {
		if errors.Is(err, schema.ErrMalformedJSON) {
			h.reject(w, http.StatusBadRequest, "Invalid request body: expected JSON with a non-empty \"rows\" list.")
			return
		}
		h.fail(w, err)
		return
	}
	if !res.IsValid {
		h.logger.Info("export request rejected", slog.Any("violations", res.Errors))
		h.reject(w, http.StatusBadRequest, "No rows to export. \"rows\" must be a non-empty list of objects.")
		return
	}

	rows, err := decodeRows(body)
	if err != nil {
		h.fail(w, err)
		return
	}

	out, err := Encode(rows)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.metrics.ObserveExport(len(rows), nil)

	filename := Filename(h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.logger.Warn("write csv response", slog.String("error", err.Error()))
		return
	}

	h.logger.Info("csv exported",
		slog.String("filename", filename),
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(Headers(rows))))
}

func (h *Handler) reject(w http.ResponseWriter, status int, message string) {
	h.metrics.ObserveExport(0, errors.New(message))
	httpserver.WriteTextError(w, status, message)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("csv export failed", slog.String("error", err.Error()))
	h.metrics.ObserveExport(0, err)
	httpserver.WriteTextError(w, http.StatusInternalServerError, "Failed to export CSV: "+err.Error())
}

func decodeRows(body []byte) ([]*record.Record, error) {
	items := gjson.GetBytes(body, "rows").Array()
	rows := make([]*record.Record, 0, len(items))
	for i, item := range items {
		rec, err := record.FromResult(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
