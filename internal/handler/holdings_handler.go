package handler

import (
	"net/http"

	"github.com/boddenberg/finance-tracker/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Loans, funds and goals (not month-scoped)
// ============================================================

func loanBookHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/loans")
		defer span.End()

		book, err := svc.Loans(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}

func portfolioHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/funds")
		defer span.End()

		portfolio, err := svc.Portfolio(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, portfolio)
	}
}

func goalBookHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/goals")
		defer span.End()

		book, err := svc.Goals(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, book)
	}
}
