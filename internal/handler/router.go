package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/observability"
	"github.com/boddenberg/finance-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// StoreHealth is what /healthz reports on. Nil funcs are skipped.
type StoreHealth struct {
	Name    string
	Ping    func(ctx context.Context) error
	Breaker func() string
}

// NewRouter creates the HTTP router with all routes and middleware. Every
// /v1 route is scoped to the authenticated user.
func NewRouter(svc *service.FinanceService, auth *Authenticator, health StoreHealth, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(health))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.Middleware(logger))

		r.Get("/dashboard", dashboardHandler(svc, logger))
		r.Get("/metrics/summary", metricsSummaryHandler(metrics))

		r.Route("/income", func(r chi.Router) {
			r.Get("/", listIncomeHandler(svc, logger))
			r.Post("/", createHandler("POST /v1/income", svc.CreateIncome, logger))
			r.Delete("/{id}", deleteHandler("DELETE /v1/income/{id}", svc.DeleteIncome, logger))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", listExpensesHandler(svc, logger))
			r.Get("/categories", categoriesHandler(svc))
			r.Post("/", createHandler("POST /v1/expenses", svc.CreateExpense, logger))
			r.Delete("/{id}", deleteHandler("DELETE /v1/expenses/{id}", svc.DeleteExpense, logger))
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", loanBookHandler(svc, logger))
			r.Post("/", createHandler("POST /v1/loans", svc.CreateLoan, logger))
			r.Put("/{id}", updateHandler("PUT /v1/loans/{id}", svc.UpdateLoan, logger))
			r.Delete("/{id}", deleteHandler("DELETE /v1/loans/{id}", svc.DeleteLoan, logger))
		})

		r.Route("/funds", func(r chi.Router) {
			r.Get("/", portfolioHandler(svc, logger))
			r.Post("/", createHandler("POST /v1/funds", svc.CreateFund, logger))
			r.Put("/{id}", updateHandler("PUT /v1/funds/{id}", svc.UpdateFund, logger))
			r.Delete("/{id}", deleteHandler("DELETE /v1/funds/{id}", svc.DeleteFund, logger))
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", goalBookHandler(svc, logger))
			r.Post("/", createHandler("POST /v1/goals", svc.CreateGoal, logger))
			r.Put("/{id}", updateHandler("PUT /v1/goals/{id}", svc.UpdateGoal, logger))
			r.Delete("/{id}", deleteHandler("DELETE /v1/goals/{id}", svc.DeleteGoal, logger))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(health StoreHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "finance-api", Status: "healthy", LastChecked: now},
		}

		if health.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			start := time.Now()
			err := health.Ping(ctx)
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			if health.Breaker != nil && health.Breaker() == "open" {
				status = "unhealthy"
			}
			services = append(services, domain.ServiceHealth{
				Name:        health.Name,
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
