package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// timestamp scans TEXT (SQLite) or timestamptz (lib/pq) into a time.Time.
type timestamp struct{ t time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.t = time.Time{}
		return nil
	case time.Time:
		ts.t = v.UTC()
		return nil
	case []byte:
		return ts.Scan(string(v))
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				ts.t = t.UTC()
				return nil
			}
		}
		return fmt.Errorf("cannot parse timestamp %q", v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sipDay(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

const incomeColumns = "id, user_id, date, source, amount, account, notes, external_id, created_at"

func scanIncome(row scanner) (domain.IncomeEntry, error) {
	var (
		e              domain.IncomeEntry
		account, notes sql.NullString
		external       sql.NullString
		created        timestamp
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Source, &e.Amount, &account, &notes, &external, &created)
	e.Account, e.Notes, e.ExternalID, e.CreatedAt = account.String, notes.String, external.String, created.t
	return e, err
}

const expenseColumns = "id, user_id, date, category, sub_category, amount, payment_method, vendor_note, external_id, created_at"

func scanExpense(row scanner) (domain.ExpenseEntry, error) {
	var (
		e            domain.ExpenseEntry
		category     string
		method, note sql.NullString
		external     sql.NullString
		created      timestamp
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &category, &e.SubCategory, &e.Amount, &method, &note, &external, &created)
	e.Category = domain.ExpenseCategory(category)
	e.PaymentMethod, e.Note, e.ExternalID, e.CreatedAt = method.String, note.String, external.String, created.t
	return e, err
}

const loanColumns = "id, user_id, loan_type, total_amount, interest_rate, emi_amount, start_date, end_date, remaining_months, outstanding_principal, created_at"

func scanLoan(row scanner) (domain.Loan, error) {
	var (
		l       domain.Loan
		rate    decimal.NullDecimal
		created timestamp
	)
	err := row.Scan(&l.ID, &l.UserID, &l.LoanType, &l.TotalAmount, &rate, &l.EMIAmount,
		&l.StartDate, &l.EndDate, &l.RemainingMonths, &l.OutstandingPrincipal, &created)
	l.InterestRatePct, l.CreatedAt = orZero(rate), created.t
	return l, err
}

const fundColumns = "id, user_id, fund_name, fund_type, sip_amount, sip_date, lumpsum_amount, invested_amount, current_value, created_at, updated_at"

func scanFund(row scanner) (domain.Fund, error) {
	var (
		f                domain.Fund
		fundType         string
		sip, lumpsum     decimal.NullDecimal
		day              sql.NullInt64
		created, updated timestamp
	)
	err := row.Scan(&f.ID, &f.UserID, &f.FundName, &fundType, &sip, &day, &lumpsum,
		&f.InvestedAmount, &f.CurrentValue, &created, &updated)
	f.FundType = domain.FundType(fundType)
	f.SIPAmount, f.LumpsumAmount = orZero(sip), orZero(lumpsum)
	if day.Valid {
		d := int(day.Int64)
		f.SIPDay = &d
	}
	f.CreatedAt, f.UpdatedAt = created.t, updated.t
	return f, err
}

const goalColumns = "id, user_id, goal_name, target_amount, target_date, monthly_contribution, current_saved, created_at"

func scanGoal(row scanner) (domain.Goal, error) {
	var (
		g                   domain.Goal
		contribution, saved decimal.NullDecimal
		created             timestamp
	)
	err := row.Scan(&g.ID, &g.UserID, &g.GoalName, &g.TargetAmount, &g.TargetDate, &contribution, &saved, &created)
	g.MonthlyContribution, g.CurrentSaved, g.CreatedAt = orZero(contribution), orZero(saved), created.t
	return g, err
}
