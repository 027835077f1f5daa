// File: internal/server/handlers.go
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxRequestBody caps the trigger request body; it only carries two fields.
const maxRequestBody = 1 << 16

// ReportRunner is the part of service.Service the handlers call.
type ReportRunner interface {
	Run(ctx context.Context, req service.Request) (*service.Response, error)
	Lookup(ctx context.Context, id string, format string) (*service.Response, error)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handlers manages the HTTP request handling for the report trigger.
type Handlers struct {
	log    *zap.Logger
	runner ReportRunner
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(logger *zap.Logger, runner ReportRunner) *Handlers {
	return &Handlers{
		log:    logger.Named("http_handlers"),
		runner: runner,
	}
}

// RegisterRoutes sets up the report routes. apiMiddleware wraps the versioned API only.
func (h *Handlers) RegisterRoutes(r chi.Router, apiMiddleware ...func(http.Handler) http.Handler) {
	// Health check endpoint (unversioned)
	r.Get("/healthz", h.HandleHealthCheck)

	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(apiMiddleware...)
		r.Post("/weekly", h.HandleGenerateWeekly)
		r.Get("/{reportID}", h.HandleGetReport)
	})
}

// HandleHealthCheck is a simple handler to confirm the server is responsive.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleGenerateWeekly runs one report. Options come from a JSON body
// ({"format", "email_report"}) or, when the body is empty, from the query string.
func (h *Handlers) HandleGenerateWeekly(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	h.log.Info("Received report request",
		zap.String("format", req.Format),
		zap.Bool("email_report", req.EmailReport))

	resp, err := h.runner.Run(r.Context(), req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.writeReport(w, resp)
}

// HandleGetReport re-renders a stored report.
func (h *Handlers) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	resp, err := h.runner.Lookup(r.Context(), reportID, r.URL.Query().Get("format"))
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.writeReport(w, resp)
}

func decodeRequest(r *http.Request) (service.Request, error) {
	var req service.Request
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return req, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return req, err
		}
	}

	q := r.URL.Query()
	if req.Format == "" {
		req.Format = q.Get("format")
	}
	if v := q.Get("email_report"); v != "" && !req.EmailReport {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("email_report must be a boolean")
		}
		req.EmailReport = b
	}
	return req, nil
}

func (h *Handlers) writeReport(w http.ResponseWriter, resp *service.Response) {
	w.Header().Set("Content-Type", resp.ContentType)
	if resp.Report != nil {
		w.Header().Set("X-Report-Id", resp.Report.ID)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handlers) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		h.respondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, schemas.ErrReportNotFound):
		h.respondWithError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		h.log.Error("Report request failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "report_failed", err.Error())
	}
}

// respondWithError sends a standardized JSON error response.
func (h *Handlers) respondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	writeError(w, h.log, statusCode, code, message)
}

func writeError(w http.ResponseWriter, log *zap.Logger, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: code, Message: message}); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}
