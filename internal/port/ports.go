// Package port defines the interfaces (ports) for external dependencies.
// The finance service and engine only ever see these interfaces; the
// Supabase, Postgres and SQLite adapters live under infra.
package port

import (
	"context"

	"github.com/boddenberg/finance-tracker/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// RecordStore is the persistence boundary for a user's financial records.
// Every call is scoped to userID; an adapter must never return or touch
// rows owned by another user. Lists are returned in store order:
// income/expenses by date desc, loans/funds by created_at desc, goals by
// target_date asc.
type RecordStore interface {
	// Income
	ListIncome(ctx context.Context, userID string, r domain.DateRange) ([]domain.IncomeEntry, error)
	CreateIncome(ctx context.Context, e *domain.IncomeEntry) (*domain.IncomeEntry, error)
	DeleteIncome(ctx context.Context, userID, id string) error

	// Expenses
	ListExpenses(ctx context.Context, userID string, r domain.DateRange) ([]domain.ExpenseEntry, error)
	CreateExpense(ctx context.Context, e *domain.ExpenseEntry) (*domain.ExpenseEntry, error)
	DeleteExpense(ctx context.Context, userID, id string) error

	// EMI loans
	ListLoans(ctx context.Context, userID string) ([]domain.Loan, error)
	CreateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, userID, id string) error

	// Mutual funds
	ListFunds(ctx context.Context, userID string) ([]domain.Fund, error)
	CreateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error)
	UpdateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error)
	DeleteFund(ctx context.Context, userID, id string) error

	// Goals
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
