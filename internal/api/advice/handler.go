package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/pkg/formatter"
	"github.com/futig/medi-assistant/internal/pkg/logger"
	"github.com/futig/medi-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type Handler struct {
	usecase    AdviceUsecase
	formatters *formatter.Factory
}

func NewHandler(usecase AdviceUsecase, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		formatters: formatters,
	}
}

// GetMeta handles GET /meta - languages, conditions, red flags and disclaimer
func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	response.Success(w, toMetaDTO())
}

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	session, err := h.usecase.CreateSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", session.ID))
	response.Created(w, toSessionDTO(session))
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GetSession", sessionID)

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "DeleteSession", sessionID)

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// SetSymptoms handles PUT /sessions/{id}/symptoms - replace symptoms from the input field
func (h *Handler) SetSymptoms(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "SetSymptoms", sessionID)

	var req entity.SymptomsInputRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	session, err := h.usecase.SetSymptomsInput(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "symptoms updated", zap.Int("symptoms", len(session.Report.Symptoms)))
	response.Success(w, toSessionDTO(session))
}

// GenerateAdvice handles POST /sessions/{id}/advice - text or audio advice
func (h *Handler) GenerateAdvice(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GenerateAdvice", sessionID)

	var req entity.AdviceRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("language", req.Language),
		zap.Bool("audio", req.Audio),
	)

	session, err := h.usecase.GenerateAdvice(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "advice generated",
		zap.String("failure", string(session.Advice.Failure)),
		zap.Int("segments", len(session.Rendered.Segments)),
	)
	response.Success(w, toAdviceDTO(session))
}

// GenerateSuggestions handles POST /sessions/{id}/suggestions
func (h *Handler) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GenerateSuggestions", sessionID)

	var req entity.SuggestionsRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	session, err := h.usecase.GenerateSuggestions(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSuggestionsDTO(session.Suggestions))
}

// AcceptSuggestion handles POST /sessions/{id}/suggestions/accept
func (h *Handler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "AcceptSuggestion", sessionID)

	var req entity.AcceptSuggestionRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	session, err := h.usecase.AcceptSuggestion(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// GetAudio handles GET /sessions/{id}/audio
func (h *Handler) GetAudio(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GetAudio", sessionID)

	data, artifact, err := h.usecase.Audio(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", artifact.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetReport handles GET /sessions/{id}/report?format=markdown|pdf|docx
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GetReport", sessionID)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, "format must be one of: markdown, docx, pdf",
			fmt.Errorf("%w: %q", entity.ErrInvalidFormat, formatParam))
		return
	}

	report, err := h.usecase.Report(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	data, err := fmtr.Format(report)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format report", err)
		return
	}

	ctxzap.Info(ctx, "report exported", zap.String("format", string(format)))
	response.Binary(w, fmtr.ContentType(), "advice-"+sessionID+fmtr.FileExtension(), data)
}

// GetHistory handles GET /sessions/{id}/history?limit=N
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithSession(r.Context(), "GetHistory", sessionID)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "limit must be a number",
				fmt.Errorf("%w: limit %q", entity.ErrInvalidParameter, raw))
			return
		}
		limit = parsed
	}

	records, err := h.usecase.History(ctx, sessionID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, records)
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

// handleUsecaseError maps domain errors to status codes. Rejected user input is
// a 422 whose message is the validation notice shown to the user.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, entity.ErrNoAdvice), errors.Is(err, entity.ErrNoAudio):
		h.respondError(ctx, w, http.StatusNotFound, validationNotice(err), err)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case entity.IsValidationError(err):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, validationNotice(err), err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "request timed out", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}

// validationNotice returns the user-facing text of the domain sentinel behind err.
func validationNotice(err error) string {
	for _, sentinel := range []error{
		entity.ErrEmptySymptoms,
		entity.ErrUnknownCondition,
		entity.ErrUnknownLanguage,
		entity.ErrUnknownSuggestion,
		entity.ErrMissingField,
		entity.ErrNoAdvice,
		entity.ErrNoAudio,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
