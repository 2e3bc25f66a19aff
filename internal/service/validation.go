package service

import (
	"strings"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

func invalid(field, msg string) error {
	return &domain.ErrValidation{Field: field, Message: msg}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

func positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func dated(field string, d domain.Date) error {
	if d.IsZero() {
		return invalid(field, "is required")
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateIncome(e *domain.IncomeEntry) error {
	e.Source = strings.TrimSpace(e.Source)
	return firstError(
		dated("date", e.Date),
		required("source", e.Source),
		nonNegative("amount", e.Amount),
	)
}

func validateExpense(e *domain.ExpenseEntry) error {
	return firstError(
		dated("date", e.Date),
		e.Category.ValidateSubCategory(e.SubCategory),
		nonNegative("amount", e.Amount),
	)
}

func validateLoan(l *domain.Loan) error {
	l.LoanType = strings.TrimSpace(l.LoanType)
	if err := firstError(
		required("loan_type", l.LoanType),
		nonNegative("total_amount", l.TotalAmount),
		nonNegative("interest_rate", l.InterestRatePct),
		nonNegative("emi_amount", l.EMIAmount),
		nonNegative("outstanding_principal", l.OutstandingPrincipal),
		dated("start_date", l.StartDate),
		dated("end_date", l.EndDate),
	); err != nil {
		return err
	}
	if l.OutstandingPrincipal.GreaterThan(l.TotalAmount) {
		return invalid("outstanding_principal", "must not exceed total_amount")
	}
	if l.RemainingMonths < 0 {
		return invalid("remaining_months", "must not be negative")
	}
	if l.EndDate.Before(l.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}

func validateFund(f *domain.Fund) error {
	f.FundName = strings.TrimSpace(f.FundName)
	if err := required("fund_name", f.FundName); err != nil {
		return err
	}
	if !f.FundType.Valid() {
		return invalid("fund_type", "must be one of Equity, Debt, Hybrid, Index")
	}
	if f.SIPDay != nil && (*f.SIPDay < 1 || *f.SIPDay > 31) {
		return invalid("sip_date", "must be between 1 and 31")
	}
	return firstError(
		nonNegative("sip_amount", f.SIPAmount),
		nonNegative("lumpsum_amount", f.LumpsumAmount),
		nonNegative("invested_amount", f.InvestedAmount),
		nonNegative("current_value", f.CurrentValue),
	)
}

func validateGoal(g *domain.Goal) error {
	g.GoalName = strings.TrimSpace(g.GoalName)
	return firstError(
		required("goal_name", g.GoalName),
		positive("target_amount", g.TargetAmount),
		dated("target_date", g.TargetDate),
		nonNegative("monthly_contribution", g.MonthlyContribution),
		nonNegative("current_saved", g.CurrentSaved),
	)
}
