// Package service holds the use cases. FinanceService validates writes,
// forwards them to the record store and assembles the read views by
// running the pure engine over a freshly fetched snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/finance"
	"github.com/boddenberg/finance-tracker/internal/infra/observability"
	"github.com/boddenberg/finance-tracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("service/finance")

// Clock supplies "now". Injected so projections are reproducible.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FinanceService is the single entry point for handlers and the CLI.
type FinanceService struct {
	store   port.RecordStore
	replays port.Cache[any]
	flight  singleflight.Group
	period  finance.PeriodMode
	clock   Clock
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinanceService wires the service. replays holds idempotent create
// results and may be shared across instances of the service.
func NewFinanceService(
	store port.RecordStore,
	replays port.Cache[any],
	period finance.PeriodMode,
	clock Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *FinanceService {
	if clock == nil {
		clock = SystemClock
	}
	return &FinanceService{
		store:   store,
		replays: replays,
		period:  period,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Today is the current calendar date according to the service clock.
func (s *FinanceService) Today() domain.Date {
	return domain.DateOf(s.clock.Now())
}

// Range resolves a month under the configured period mode. A zero month
// means the current one.
func (s *FinanceService) Range(month domain.Month) (domain.Month, domain.DateRange) {
	if month.Year == 0 {
		month = s.Today().Month()
	}
	return month, finance.MonthRange(month, s.period)
}

// observe counts a store call. Not-found answers are not store failures.
func (s *FinanceService) observe(op string, err error) error {
	var nf *domain.ErrNotFound
	if errors.As(err, &nf) {
		s.metrics.ObserveStoreCall(op, nil)
		return err
	}
	s.metrics.ObserveStoreCall(op, err)
	if err != nil {
		s.logger.Error("record store call failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// ============================================================
// Dashboard
// ============================================================

// Snapshot loads everything the dashboard needs for one user and month.
// The five reads run concurrently; any failure fails the whole snapshot.
func (s *FinanceService) Snapshot(ctx context.Context, userID string, month domain.Month) (domain.Snapshot, domain.DateRange, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Snapshot")
	defer span.End()

	month, r := s.Range(month)
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("month", month.String()))

	snap := domain.Snapshot{Month: month}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.ListIncome(gCtx, userID, r)
		snap.Income = rows
		return s.observe("list_income", err)
	})
	g.Go(func() error {
		rows, err := s.store.ListExpenses(gCtx, userID, r)
		snap.Expenses = rows
		return s.observe("list_expenses", err)
	})
	g.Go(func() error {
		rows, err := s.store.ListLoans(gCtx, userID)
		snap.Loans = rows
		return s.observe("list_loans", err)
	})
	g.Go(func() error {
		rows, err := s.store.ListFunds(gCtx, userID)
		snap.Funds = rows
		return s.observe("list_funds", err)
	})
	g.Go(func() error {
		rows, err := s.store.ListGoals(gCtx, userID)
		snap.Goals = rows
		return s.observe("list_goals", err)
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, r, fmt.Errorf("load %s snapshot: %w", month, err)
	}
	return snap, r, nil
}

// Dashboard computes the monthly summary.
func (s *FinanceService) Dashboard(ctx context.Context, userID string, month domain.Month) (*domain.MonthlySummary, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Dashboard")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("dashboard", time.Since(start)) }()

	snap, r, err := s.Snapshot(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	summary := finance.BuildMonthlySummary(snap, r, s.Today())
	s.metrics.IncrDashboard()
	s.logger.Debug("dashboard computed",
		zap.String("user_id", userID),
		zap.String("month", snap.Month.String()),
		zap.Int("income_entries", len(snap.Income)),
		zap.Int("expense_entries", len(snap.Expenses)),
	)
	return &summary, nil
}

// ============================================================
// Income
// ============================================================

// Income lists a month's income with its total.
func (s *FinanceService) Income(ctx context.Context, userID string, month domain.Month) (*domain.IncomeSummary, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Income")
	defer span.End()

	_, r := s.Range(month)
	rows, err := s.store.ListIncome(ctx, userID, r)
	if err := s.observe("list_income", err); err != nil {
		return nil, err
	}
	return &domain.IncomeSummary{Entries: rows, Total: finance.TotalIncome(rows)}, nil
}

// CreateIncome validates and stores an income entry.
func (s *FinanceService) CreateIncome(ctx context.Context, userID, idemKey string, e *domain.IncomeEntry) (*domain.IncomeEntry, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.CreateIncome")
	defer span.End()

	e.UserID = userID
	if err := validateIncome(e); err != nil {
		return nil, err
	}
	return idempotent(s, domain.KindIncome, userID, idemKey, func() (*domain.IncomeEntry, error) {
		created, err := s.store.CreateIncome(ctx, e)
		return created, s.observe("create_income", err)
	})
}

// DeleteIncome removes an income entry.
func (s *FinanceService) DeleteIncome(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteIncome")
	defer span.End()

	return s.written(domain.KindIncome, s.observe("delete_income", s.store.DeleteIncome(ctx, userID, id)))
}

// ============================================================
// Expenses
// ============================================================

// Expenses lists a month's expenses with totals and breakdown.
func (s *FinanceService) Expenses(ctx context.Context, userID string, month domain.Month) (*domain.ExpenseSummary, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Expenses")
	defer span.End()

	_, r := s.Range(month)
	rows, err := s.store.ListExpenses(ctx, userID, r)
	if err := s.observe("list_expenses", err); err != nil {
		return nil, err
	}
	summary := finance.SummarizeExpenses(rows, finance.TopExpenseCategories)
	return &summary, nil
}

// CreateExpense validates and stores an expense. A missing category
// defaults to Variable.
func (s *FinanceService) CreateExpense(ctx context.Context, userID, idemKey string, e *domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.CreateExpense")
	defer span.End()

	e.UserID = userID
	if e.Category == "" {
		e.Category = domain.CategoryVariable
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}
	return idempotent(s, domain.KindExpense, userID, idemKey, func() (*domain.ExpenseEntry, error) {
		created, err := s.store.CreateExpense(ctx, e)
		return created, s.observe("create_expense", err)
	})
}

// DeleteExpense removes an expense.
func (s *FinanceService) DeleteExpense(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteExpense")
	defer span.End()

	return s.written(domain.KindExpense, s.observe("delete_expense", s.store.DeleteExpense(ctx, userID, id)))
}

// Categories returns the expense vocabulary.
func (s *FinanceService) Categories() map[domain.ExpenseCategory][]string {
	out := make(map[domain.ExpenseCategory][]string)
	for _, c := range domain.ExpenseCategories() {
		out[c] = domain.SubCategories(c)
	}
	return out
}

// ============================================================
// EMI loans
// ============================================================

// Loans returns the loan book. Debt-to-income uses the current month's
// income.
func (s *FinanceService) Loans(ctx context.Context, userID string) (*domain.LoanBook, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Loans")
	defer span.End()

	_, r := s.Range(domain.Month{})
	var (
		loans  []domain.Loan
		income []domain.IncomeEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loans, err = s.store.ListLoans(gCtx, userID)
		return s.observe("list_loans", err)
	})
	g.Go(func() error {
		var err error
		income, err = s.store.ListIncome(gCtx, userID, r)
		return s.observe("list_income", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	book := finance.ProjectLoans(loans, finance.TotalIncome(income))
	return &book, nil
}

// CreateLoan validates and stores a loan.
func (s *FinanceService) CreateLoan(ctx context.Context, userID, idemKey string, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.CreateLoan")
	defer span.End()

	l.UserID = userID
	if err := validateLoan(l); err != nil {
		return nil, err
	}
	return idempotent(s, domain.KindLoan, userID, idemKey, func() (*domain.Loan, error) {
		created, err := s.store.CreateLoan(ctx, l)
		return created, s.observe("create_loan", err)
	})
}

// UpdateLoan replaces a loan's editable fields.
func (s *FinanceService) UpdateLoan(ctx context.Context, userID, id string, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.UpdateLoan")
	defer span.End()

	l.ID, l.UserID = id, userID
	if err := validateLoan(l); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateLoan(ctx, l)
	if err := s.written(domain.KindLoan, s.observe("update_loan", err)); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLoan removes a loan.
func (s *FinanceService) DeleteLoan(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteLoan")
	defer span.End()

	return s.written(domain.KindLoan, s.observe("delete_loan", s.store.DeleteLoan(ctx, userID, id)))
}

// ============================================================
// Mutual funds
// ============================================================

// Portfolio returns the fund portfolio.
func (s *FinanceService) Portfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Portfolio")
	defer span.End()

	funds, err := s.store.ListFunds(ctx, userID)
	if err := s.observe("list_funds", err); err != nil {
		return nil, err
	}
	p := finance.BuildPortfolio(funds)
	return &p, nil
}

// CreateFund validates and stores a fund.
func (s *FinanceService) CreateFund(ctx context.Context, userID, idemKey string, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.CreateFund")
	defer span.End()

	f.UserID = userID
	f.UpdatedAt = s.clock.Now().UTC()
	if err := validateFund(f); err != nil {
		return nil, err
	}
	return idempotent(s, domain.KindFund, userID, idemKey, func() (*domain.Fund, error) {
		created, err := s.store.CreateFund(ctx, f)
		return created, s.observe("create_fund", err)
	})
}

// UpdateFund replaces a fund's editable fields and stamps UpdatedAt.
func (s *FinanceService) UpdateFund(ctx context.Context, userID, id string, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.UpdateFund")
	defer span.End()

	f.ID, f.UserID = id, userID
	f.UpdatedAt = s.clock.Now().UTC()
	if err := validateFund(f); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateFund(ctx, f)
	if err := s.written(domain.KindFund, s.observe("update_fund", err)); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteFund removes a fund.
func (s *FinanceService) DeleteFund(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteFund")
	defer span.End()

	return s.written(domain.KindFund, s.observe("delete_fund", s.store.DeleteFund(ctx, userID, id)))
}

// ============================================================
// Goals
// ============================================================

// Goals returns the goal book projected against today.
func (s *FinanceService) Goals(ctx context.Context, userID string) (*domain.GoalBook, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.Goals")
	defer span.End()

	goals, err := s.store.ListGoals(ctx, userID)
	if err := s.observe("list_goals", err); err != nil {
		return nil, err
	}
	book := finance.ProjectGoals(goals, s.Today())
	return &book, nil
}

// CreateGoal validates and stores a goal.
func (s *FinanceService) CreateGoal(ctx context.Context, userID, idemKey string, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.CreateGoal")
	defer span.End()

	g.UserID = userID
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	return idempotent(s, domain.KindGoal, userID, idemKey, func() (*domain.Goal, error) {
		created, err := s.store.CreateGoal(ctx, g)
		return created, s.observe("create_goal", err)
	})
}

// UpdateGoal replaces a goal's editable fields.
func (s *FinanceService) UpdateGoal(ctx context.Context, userID, id string, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.UpdateGoal")
	defer span.End()

	g.ID, g.UserID = id, userID
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateGoal(ctx, g)
	if err := s.written(domain.KindGoal, s.observe("update_goal", err)); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGoal removes a goal.
func (s *FinanceService) DeleteGoal(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "FinanceService.DeleteGoal")
	defer span.End()

	return s.written(domain.KindGoal, s.observe("delete_goal", s.store.DeleteGoal(ctx, userID, id)))
}

// Ping checks the record store.
func (s *FinanceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// written counts a successful mutation and passes err through.
func (s *FinanceService) written(kind domain.Kind, err error) error {
	if err == nil {
		s.metrics.IncrRecordWritten(kind)
	}
	return err
}
