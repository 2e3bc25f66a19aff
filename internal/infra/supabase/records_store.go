package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/port"
)

// Table names as created by the web client.
const (
	tableIncome   = "income"
	tableExpenses = "expenses"
	tableLoans    = "emi_loans"
	tableFunds    = "mutual_funds"
	tableGoals    = "goals"
)

var _ port.RecordStore = (*Client)(nil)

func rangeFilter(column string, r domain.DateRange) string {
	return fmt.Sprintf("%s=gte.%s&%s=lte.%s", column, r.From, column, r.To)
}

// ============================================================
// Income
// ============================================================

func (c *Client) ListIncome(ctx context.Context, userID string, r domain.DateRange) ([]domain.IncomeEntry, error) {
	ctx, span := c.startSpan(ctx, "Supabase.ListIncome", userID)
	defer span.End()

	path := fmt.Sprintf("%s?%s&%s&order=date.desc", tableIncome, eq("user_id", userID), rangeFilter("date", r))
	rows, err := selectRows[incomeRow](ctx, c, "list_income", path)
	if err != nil {
		return nil, err
	}
	return decoded(mapRows(rows, incomeRow.toDomain))
}

func (c *Client) CreateIncome(ctx context.Context, e *domain.IncomeEntry) (*domain.IncomeEntry, error) {
	ctx, span := c.startSpan(ctx, "Supabase.CreateIncome", e.UserID)
	defer span.End()

	row, err := insertRow[incomeRow](ctx, c, "create_income", tableIncome, incomePayload(e))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteIncome(ctx context.Context, userID, id string) error {
	ctx, span := c.startSpan(ctx, "Supabase.DeleteIncome", userID)
	defer span.End()

	return deleteRow(ctx, c, "delete_income", tableIncome, "income", userID, id)
}

// ============================================================
// Expenses
// ============================================================

func (c *Client) ListExpenses(ctx context.Context, userID string, r domain.DateRange) ([]domain.ExpenseEntry, error) {
	ctx, span := c.startSpan(ctx, "Supabase.ListExpenses", userID)
	defer span.End()

	path := fmt.Sprintf("%s?%s&%s&order=date.desc", tableExpenses, eq("user_id", userID), rangeFilter("date", r))
	rows, err := selectRows[expenseRow](ctx, c, "list_expenses", path)
	if err != nil {
		return nil, err
	}
	return decoded(mapRows(rows, expenseRow.toDomain))
}

func (c *Client) CreateExpense(ctx context.Context, e *domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	ctx, span := c.startSpan(ctx, "Supabase.CreateExpense", e.UserID)
	defer span.End()

	row, err := insertRow[expenseRow](ctx, c, "create_expense", tableExpenses, expensePayload(e))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, userID, id string) error {
	ctx, span := c.startSpan(ctx, "Supabase.DeleteExpense", userID)
	defer span.End()

	return deleteRow(ctx, c, "delete_expense", tableExpenses, "expense", userID, id)
}

// ============================================================
// EMI loans
// ============================================================

func (c *Client) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	ctx, span := c.startSpan(ctx, "Supabase.ListLoans", userID)
	defer span.End()

	path := fmt.Sprintf("%s?%s&order=created_at.desc", tableLoans, eq("user_id", userID))
	rows, err := selectRows[loanRow](ctx, c, "list_loans", path)
	if err != nil {
		return nil, err
	}
	return decoded(mapRows(rows, loanRow.toDomain))
}

func (c *Client) CreateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := c.startSpan(ctx, "Supabase.CreateLoan", l.UserID)
	defer span.End()

	row, err := insertRow[loanRow](ctx, c, "create_loan", tableLoans, loanPayload(l))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLoan(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	ctx, span := c.startSpan(ctx, "Supabase.UpdateLoan", l.UserID)
	defer span.End()

	row, err := updateRow[loanRow](ctx, c, "update_loan", tableLoans, "loan", l.UserID, l.ID, loanPayload(l))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLoan(ctx context.Context, userID, id string) error {
	ctx, span := c.startSpan(ctx, "Supabase.DeleteLoan", userID)
	defer span.End()

	return deleteRow(ctx, c, "delete_loan", tableLoans, "loan", userID, id)
}

// ============================================================
// Mutual funds
// ============================================================

func (c *Client) ListFunds(ctx context.Context, userID string) ([]domain.Fund, error) {
	ctx, span := c.startSpan(ctx, "Supabase.ListFunds", userID)
	defer span.End()

	path := fmt.Sprintf("%s?%s&order=created_at.desc", tableFunds, eq("user_id", userID))
	rows, err := selectRows[fundRow](ctx, c, "list_funds", path)
	if err != nil {
		return nil, err
	}
	return decoded(mapRows(rows, fundRow.toDomain))
}

func (c *Client) CreateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := c.startSpan(ctx, "Supabase.CreateFund", f.UserID)
	defer span.End()

	row, err := insertRow[fundRow](ctx, c, "create_fund", tableFunds, fundPayload(f))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error) {
	ctx, span := c.startSpan(ctx, "Supabase.UpdateFund", f.UserID)
	defer span.End()

	row, err := updateRow[fundRow](ctx, c, "update_fund", tableFunds, "fund", f.UserID, f.ID, fundPayload(f))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFund(ctx context.Context, userID, id string) error {
	ctx, span := c.startSpan(ctx, "Supabase.DeleteFund", userID)
	defer span.End()

	return deleteRow(ctx, c, "delete_fund", tableFunds, "fund", userID, id)
}

// ============================================================
// Goals
// ============================================================

func (c *Client) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := c.startSpan(ctx, "Supabase.ListGoals", userID)
	defer span.End()

	path := fmt.Sprintf("%s?%s&order=target_date.asc", tableGoals, eq("user_id", userID))
	rows, err := selectRows[goalRow](ctx, c, "list_goals", path)
	if err != nil {
		return nil, err
	}
	return decoded(mapRows(rows, goalRow.toDomain))
}

func (c *Client) CreateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := c.startSpan(ctx, "Supabase.CreateGoal", g.UserID)
	defer span.End()

	row, err := insertRow[goalRow](ctx, c, "create_goal", tableGoals, goalPayload(g))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGoal(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := c.startSpan(ctx, "Supabase.UpdateGoal", g.UserID)
	defer span.End()

	row, err := updateRow[goalRow](ctx, c, "update_goal", tableGoals, "goal", g.UserID, g.ID, goalPayload(g))
	if err != nil {
		return nil, err
	}
	out, err := decoded(row.toDomain())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGoal(ctx context.Context, userID, id string) error {
	ctx, span := c.startSpan(ctx, "Supabase.DeleteGoal", userID)
	defer span.End()

	return deleteRow(ctx, c, "delete_goal", tableGoals, "goal", userID, id)
}
