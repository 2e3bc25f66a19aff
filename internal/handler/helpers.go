package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

// maxBodyBytes bounds request bodies; records are small.
const maxBodyBytes = 1 << 20

// idempotencyHeader lets clients retry a create without duplicating it.
const idempotencyHeader = "Idempotency-Key"

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// monthParam reads ?month=YYYY-MM. Absent means the current month.
func monthParam(r *http.Request) (domain.Month, error) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return domain.Month{}, nil
	}
	return domain.ParseMonth(v)
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(idempotencyHeader))
}

// ============================================================
// Generic record handlers
// ============================================================

func createHandler[T any](route string, create func(ctx context.Context, userID, idemKey string, rec *T) (*T, error), logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()

		var rec T
		if err := decodeBody(w, r, &rec); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := create(ctx, UserIDFromContext(ctx), idempotencyKey(r), &rec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateHandler[T any](route string, update func(ctx context.Context, userID, id string, rec *T) (*T, error), logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()

		var rec T
		if err := decodeBody(w, r, &rec); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		updated, err := update(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"), &rec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteHandler(route string, del func(ctx context.Context, userID, id string) error, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := del(ctx, UserIDFromContext(ctx), id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "deleted", ID: id})
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var duplicate *domain.ErrDuplicate
	var unauthorized *domain.ErrUnauthorized
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicate):
		logger.Debug("duplicate operation", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, "record store timed out")
	case errors.As(err, &external):
		logger.Error("record store failure", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, "record store unavailable; nothing was changed")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
