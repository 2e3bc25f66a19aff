package handler

import (
	"net/http"

	"github.com/boddenberg/finance-tracker/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GET /v1/dashboard?month=YYYY-MM
func dashboardHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		month, err := monthParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID))

		summary, err := svc.Dashboard(ctx, userID, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
