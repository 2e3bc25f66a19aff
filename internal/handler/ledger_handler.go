package handler

import (
	"net/http"

	"github.com/boddenberg/finance-tracker/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Income & expenses (month-scoped)
// ============================================================

func listIncomeHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/income")
		defer span.End()

		month, err := monthParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := svc.Income(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func listExpensesHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses")
		defer span.End()

		month, err := monthParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := svc.Expenses(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func categoriesHandler(svc *service.FinanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Categories())
	}
}
