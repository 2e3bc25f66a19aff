package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Row shapes of the five tables and their domain mapping
// ============================================================

type incomeRow struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Date       string          `json:"date"`
	Source     string          `json:"source"`
	Amount     decimal.Decimal `json:"amount"`
	Account    *string         `json:"account"`
	Notes      *string         `json:"notes"`
	ExternalID *string         `json:"external_id"`
	CreatedAt  string          `json:"created_at"`
}

func (r incomeRow) toDomain() (domain.IncomeEntry, error) {
	dates := rowDates{table: tableIncome, id: r.ID}
	e := domain.IncomeEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       dates.required("date", r.Date),
		Source:     r.Source,
		Amount:     r.Amount,
		Account:    str(r.Account),
		Notes:      str(r.Notes),
		ExternalID: str(r.ExternalID),
		CreatedAt:  parseTimestamp(r.CreatedAt),
	}
	return e, dates.err
}

func incomePayload(e *domain.IncomeEntry) map[string]any {
	return map[string]any{
		"user_id":     e.UserID,
		"date":        dateValue(e.Date),
		"source":      e.Source,
		"amount":      number(e.Amount),
		"account":     nullable(e.Account),
		"notes":       nullable(e.Notes),
		"external_id": nullable(e.ExternalID),
	}
}

type expenseRow struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	SubCategory   string          `json:"sub_category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method"`
	VendorNote    *string         `json:"vendor_note"`
	ExternalID    *string         `json:"external_id"`
	CreatedAt     string          `json:"created_at"`
}

func (r expenseRow) toDomain() (domain.ExpenseEntry, error) {
	dates := rowDates{table: tableExpenses, id: r.ID}
	e := domain.ExpenseEntry{
		ID:            r.ID,
		UserID:        r.UserID,
		Date:          dates.required("date", r.Date),
		Category:      domain.ExpenseCategory(r.Category),
		SubCategory:   r.SubCategory,
		Amount:        r.Amount,
		PaymentMethod: str(r.PaymentMethod),
		Note:          str(r.VendorNote),
		ExternalID:    str(r.ExternalID),
		CreatedAt:     parseTimestamp(r.CreatedAt),
	}
	return e, dates.err
}

func expensePayload(e *domain.ExpenseEntry) map[string]any {
	return map[string]any{
		"user_id":        e.UserID,
		"date":           dateValue(e.Date),
		"category":       string(e.Category),
		"sub_category":   e.SubCategory,
		"amount":         number(e.Amount),
		"payment_method": nullable(e.PaymentMethod),
		"vendor_note":    nullable(e.Note),
		"external_id":    nullable(e.ExternalID),
	}
}

type loanRow struct {
	ID                   string              `json:"id"`
	UserID               string              `json:"user_id"`
	LoanType             string              `json:"loan_type"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	InterestRate         decimal.NullDecimal `json:"interest_rate"`
	EMIAmount            decimal.Decimal     `json:"emi_amount"`
	StartDate            string              `json:"start_date"`
	EndDate              string              `json:"end_date"`
	RemainingMonths      int                 `json:"remaining_months"`
	OutstandingPrincipal decimal.Decimal     `json:"outstanding_principal"`
	CreatedAt            string              `json:"created_at"`
}

func (r loanRow) toDomain() (domain.Loan, error) {
	dates := rowDates{table: tableLoans, id: r.ID}
	l := domain.Loan{
		ID:                   r.ID,
		UserID:               r.UserID,
		LoanType:             r.LoanType,
		TotalAmount:          r.TotalAmount,
		InterestRatePct:      orZero(r.InterestRate),
		EMIAmount:            r.EMIAmount,
		StartDate:            dates.optional("start_date", r.StartDate),
		EndDate:              dates.optional("end_date", r.EndDate),
		RemainingMonths:      r.RemainingMonths,
		OutstandingPrincipal: r.OutstandingPrincipal,
		CreatedAt:            parseTimestamp(r.CreatedAt),
	}
	return l, dates.err
}

func loanPayload(l *domain.Loan) map[string]any {
	return map[string]any{
		"user_id":               l.UserID,
		"loan_type":             l.LoanType,
		"total_amount":          number(l.TotalAmount),
		"interest_rate":         number(l.InterestRatePct),
		"emi_amount":            number(l.EMIAmount),
		"start_date":            dateValue(l.StartDate),
		"end_date":              dateValue(l.EndDate),
		"remaining_months":      l.RemainingMonths,
		"outstanding_principal": number(l.OutstandingPrincipal),
	}
}

type fundRow struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	FundName       string              `json:"fund_name"`
	FundType       string              `json:"fund_type"`
	SIPAmount      decimal.NullDecimal `json:"sip_amount"`
	SIPDate        *int                `json:"sip_date"`
	LumpsumAmount  decimal.NullDecimal `json:"lumpsum_amount"`
	InvestedAmount decimal.Decimal     `json:"invested_amount"`
	CurrentValue   decimal.Decimal     `json:"current_value"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

func (r fundRow) toDomain() (domain.Fund, error) {
	return domain.Fund{
		ID:             r.ID,
		UserID:         r.UserID,
		FundName:       r.FundName,
		FundType:       domain.FundType(r.FundType),
		SIPAmount:      orZero(r.SIPAmount),
		SIPDay:         r.SIPDate,
		LumpsumAmount:  orZero(r.LumpsumAmount),
		InvestedAmount: r.InvestedAmount,
		CurrentValue:   r.CurrentValue,
		CreatedAt:      parseTimestamp(r.CreatedAt),
		UpdatedAt:      parseTimestamp(r.UpdatedAt),
	}, nil
}

func fundPayload(f *domain.Fund) map[string]any {
	data := map[string]any{
		"user_id":         f.UserID,
		"fund_name":       f.FundName,
		"fund_type":       string(f.FundType),
		"sip_amount":      number(f.SIPAmount),
		"sip_date":        nil,
		"lumpsum_amount":  number(f.LumpsumAmount),
		"invested_amount": number(f.InvestedAmount),
		"current_value":   number(f.CurrentValue),
	}
	if f.SIPDay != nil {
		data["sip_date"] = *f.SIPDay
	}
	if !f.UpdatedAt.IsZero() {
		data["updated_at"] = f.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return data
}

type goalRow struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"user_id"`
	GoalName            string              `json:"goal_name"`
	TargetAmount        decimal.Decimal     `json:"target_amount"`
	TargetDate          string              `json:"target_date"`
	MonthlyContribution decimal.NullDecimal `json:"monthly_contribution"`
	CurrentSaved        decimal.NullDecimal `json:"current_saved"`
	CreatedAt           string              `json:"created_at"`
}

func (r goalRow) toDomain() (domain.Goal, error) {
	dates := rowDates{table: tableGoals, id: r.ID}
	g := domain.Goal{
		ID:                  r.ID,
		UserID:              r.UserID,
		GoalName:            r.GoalName,
		TargetAmount:        r.TargetAmount,
		TargetDate:          dates.required("target_date", r.TargetDate),
		MonthlyContribution: orZero(r.MonthlyContribution),
		CurrentSaved:        orZero(r.CurrentSaved),
		CreatedAt:           parseTimestamp(r.CreatedAt),
	}
	return g, dates.err
}

func goalPayload(g *domain.Goal) map[string]any {
	return map[string]any{
		"user_id":              g.UserID,
		"goal_name":            g.GoalName,
		"target_amount":        number(g.TargetAmount),
		"target_date":          dateValue(g.TargetDate),
		"monthly_contribution": number(g.MonthlyContribution),
		"current_saved":        number(g.CurrentSaved),
	}
}

// number sends a decimal as a bare JSON number so numeric columns keep
// every digit.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

func dateValue(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// rowDates parses the date columns of one row and keeps the first
// failure, naming the table, row and column.
type rowDates struct {
	table string
	id    string
	err   error
}

func (rd *rowDates) required(column, s string) domain.Date {
	if s == "" {
		rd.fail(column, s, errors.New("missing"))
		return domain.Date{}
	}
	return rd.optional(column, s)
}

func (rd *rowDates) optional(column, s string) domain.Date {
	if s == "" {
		return domain.Date{}
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		rd.fail(column, s, err)
	}
	return d
}

func (rd *rowDates) fail(column, value string, err error) {
	if rd.err == nil {
		rd.err = fmt.Errorf("%s row %s: bad %s %q: %w", rd.table, rd.id, column, value, err)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts timestamptz and plain timestamp renderings.
// Unparseable input yields the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func mapRows[R any, T any](rows []R, conv func(R) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := conv(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
