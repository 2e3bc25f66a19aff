package sqlstore

import (
	"context"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/port"
)

var _ port.RecordStore = (*Store)(nil)

// ============================================================
// Income
// ============================================================

func (s *Store) ListIncome(ctx context.Context, userID string, r domain.DateRange) ([]domain.IncomeEntry, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.ListIncome", userID)
	defer span.End()

	return queryAll(ctx, s, "list_income",
		"SELECT "+incomeColumns+" FROM income WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, created_at DESC",
		scanIncome, userID, r.From, r.To)
}

func (s *Store) CreateIncome(ctx context.Context, e *domain.IncomeEntry) (*domain.IncomeEntry, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.CreateIncome", e.UserID)
	defer span.End()

	id := s.newID()
	return writeOne(ctx, s, "create_income", "income", id,
		"INSERT INTO income ("+incomeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+incomeColumns,
		scanIncome, id, e.UserID, e.Date, e.Source, e.Amount, nullString(e.Account), nullString(e.Notes),
		nullString(e.ExternalID), s.timestamp())
}

func (s *Store) DeleteIncome(ctx context.Context, userID, id string) error {
	ctx, span := s.startSpan(ctx, "SQLStore.DeleteIncome", userID)
	defer span.End()

	return s.deleteOne(ctx, "delete_income", "income", "income", userID, id)
}

// ============================================================
// Expenses
// ============================================================

func (s *Store) ListExpenses(ctx context.Context, userID string, r domain.DateRange) ([]domain.ExpenseEntry, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.ListExpenses", userID)
	defer span.End()

	return queryAll(ctx, s, "list_expenses",
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, created_at DESC",
		scanExpense, userID, r.From, r.To)
}

func (s *Store) CreateExpense(ctx context.Context, e *domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.CreateExpense", e.UserID)
	defer span.End()

	id := s.newID()
	return writeOne(ctx, s, "create_expense", "expense", id,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+expenseColumns,
		scanExpense, id, e.UserID, e.Date, string(e.Category), e.SubCategory, e.Amount,
		nullString(e.PaymentMethod), nullString(e.Note), nullString(e.ExternalID), s.timestamp())
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id string) error {
	ctx, span := s.startSpan(ctx, "SQLStore.DeleteExpense", userID)
	defer span.End()

	return s.deleteOne(ctx, "delete_expense", "expenses", "expense", userID, id)
}

// ============================================================
// EMI loans
// ============================================================

func (s *Store) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.ListLoans", userID)
	defer span.End()

	return queryAll(ctx, s, "list_loans",
		"SELECT "+loanColumns+" FROM emi_loans WHERE user_id = ? ORDER BY created_at DESC",
		scanLoan, userID)
}

func (s *Store) CreateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.CreateLoan", l.UserID)
	defer span.End()

	id := s.newID()
	return writeOne(ctx, s, "create_loan", "loan", id,
		"INSERT INTO emi_loans ("+loanColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+loanColumns,
		scanLoan, id, l.UserID, l.LoanType, l.TotalAmount, l.InterestRatePct, l.EMIAmount,
		l.StartDate, l.EndDate, l.RemainingMonths, l.OutstandingPrincipal, s.timestamp())
}

func (s *Store) UpdateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.UpdateLoan", l.UserID)
	defer span.End()

	return writeOne(ctx, s, "update_loan", "loan", l.ID,
		`UPDATE emi_loans SET loan_type = ?, total_amount = ?, interest_rate = ?, emi_amount = ?,
			start_date = ?, end_date = ?, remaining_months = ?, outstanding_principal = ?
		WHERE id = ? AND user_id = ? RETURNING `+loanColumns,
		scanLoan, l.LoanType, l.TotalAmount, l.InterestRatePct, l.EMIAmount,
		l.StartDate, l.EndDate, l.RemainingMonths, l.OutstandingPrincipal, l.ID, l.UserID)
}

func (s *Store) DeleteLoan(ctx context.Context, userID, id string) error {
	ctx, span := s.startSpan(ctx, "SQLStore.DeleteLoan", userID)
	defer span.End()

	return s.deleteOne(ctx, "delete_loan", "emi_loans", "loan", userID, id)
}

// ============================================================
// Mutual funds
// ============================================================

func (s *Store) ListFunds(ctx context.Context, userID string) ([]domain.Fund, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.ListFunds", userID)
	defer span.End()

	return queryAll(ctx, s, "list_funds",
		"SELECT "+fundColumns+" FROM mutual_funds WHERE user_id = ? ORDER BY created_at DESC",
		scanFund, userID)
}

func (s *Store) CreateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.CreateFund", f.UserID)
	defer span.End()

	id := s.newID()
	now := s.timestamp()
	return writeOne(ctx, s, "create_fund", "fund", id,
		"INSERT INTO mutual_funds ("+fundColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+fundColumns,
		scanFund, id, f.UserID, f.FundName, string(f.FundType), f.SIPAmount, sipDay(f.SIPDay),
		f.LumpsumAmount, f.InvestedAmount, f.CurrentValue, now, now)
}

func (s *Store) UpdateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.UpdateFund", f.UserID)
	defer span.End()

	return writeOne(ctx, s, "update_fund", "fund", f.ID,
		`UPDATE mutual_funds SET fund_name = ?, fund_type = ?, sip_amount = ?, sip_date = ?,
			lumpsum_amount = ?, invested_amount = ?, current_value = ?, updated_at = ?
		WHERE id = ? AND user_id = ? RETURNING `+fundColumns,
		scanFund, f.FundName, string(f.FundType), f.SIPAmount, sipDay(f.SIPDay),
		f.LumpsumAmount, f.InvestedAmount, f.CurrentValue, s.timestamp(), f.ID, f.UserID)
}

func (s *Store) DeleteFund(ctx context.Context, userID, id string) error {
	ctx, span := s.startSpan(ctx, "SQLStore.DeleteFund", userID)
	defer span.End()

	return s.deleteOne(ctx, "delete_fund", "mutual_funds", "fund", userID, id)
}

// ============================================================
// Goals
// ============================================================

func (s *Store) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.ListGoals", userID)
	defer span.End()

	return queryAll(ctx, s, "list_goals",
		"SELECT "+goalColumns+" FROM goals WHERE user_id = ? ORDER BY target_date ASC",
		scanGoal, userID)
}

func (s *Store) CreateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.CreateGoal", g.UserID)
	defer span.End()

	id := s.newID()
	return writeOne(ctx, s, "create_goal", "goal", id,
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+goalColumns,
		scanGoal, id, g.UserID, g.GoalName, g.TargetAmount, g.TargetDate,
		g.MonthlyContribution, g.CurrentSaved, s.timestamp())
}

func (s *Store) UpdateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := s.startSpan(ctx, "SQLStore.UpdateGoal", g.UserID)
	defer span.End()

	return writeOne(ctx, s, "update_goal", "goal", g.ID,
		`UPDATE goals SET goal_name = ?, target_amount = ?, target_date = ?,
			monthly_contribution = ?, current_saved = ?
		WHERE id = ? AND user_id = ? RETURNING `+goalColumns,
		scanGoal, g.GoalName, g.TargetAmount, g.TargetDate,
		g.MonthlyContribution, g.CurrentSaved, g.ID, g.UserID)
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	ctx, span := s.startSpan(ctx, "SQLStore.DeleteGoal", userID)
	defer span.End()

	return s.deleteOne(ctx, "delete_goal", "goals", "goal", userID, id)
}
