package domain

import "github.com/shopspring/decimal"

// ============================================================
// Engine output (display-ready numbers)
// ============================================================

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// CategoryTotal is one bucket of a group-sum breakdown.
type CategoryTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// IncomeSummary is the month's income view.
type IncomeSummary struct {
	Entries []IncomeEntry   `json:"entries"`
	Total   decimal.Decimal `json:"total"`
}

// ExpenseSummary is the month's expense view with its breakdown.
type ExpenseSummary struct {
	Entries       []ExpenseEntry             `json:"entries"`
	Total         decimal.Decimal            `json:"total"`
	Fixed         decimal.Decimal            `json:"fixed"`
	Variable      decimal.Decimal            `json:"variable"`
	BySubCategory map[string]decimal.Decimal `json:"by_sub_category"`
	TopCategories []CategoryTotal            `json:"top_categories"`
}

// LoanProjection is a single loan with its derived repayment progress.
type LoanProjection struct {
	Loan
	PaidPct float64 `json:"paid_pct"`
}

// LoanBook aggregates all of a user's loans.
type LoanBook struct {
	Loans            []LoanProjection `json:"loans"`
	TotalEMI         decimal.Decimal  `json:"total_emi"`
	TotalOutstanding decimal.Decimal  `json:"total_outstanding"`
	DebtToIncomePct  float64          `json:"debt_to_income_pct"`
}

// FundPerformance is a single fund with its returns.
type FundPerformance struct {
	Fund
	Returns    decimal.Decimal `json:"returns"`
	ReturnsPct float64         `json:"returns_pct"`
}

// AllocationBucket is one fund type's share of the portfolio.
type AllocationBucket struct {
	FundType FundType        `json:"fund_type"`
	Value    decimal.Decimal `json:"value"`
	Pct      float64         `json:"pct"`
	Count    int             `json:"count"`
}

// Portfolio aggregates all of a user's funds.
type Portfolio struct {
	Funds             []FundPerformance  `json:"funds"`
	TotalSIP          decimal.Decimal    `json:"total_sip"`
	TotalInvested     decimal.Decimal    `json:"total_invested"`
	TotalCurrentValue decimal.Decimal    `json:"total_current_value"`
	Returns           decimal.Decimal    `json:"returns"`
	ReturnsPct        float64            `json:"returns_pct"`
	Allocation        []AllocationBucket `json:"allocation"`
}

// GoalStatus is derived on every evaluation, never stored.
type GoalStatus string

const (
	GoalAchieved       GoalStatus = "achieved"
	GoalPastDue        GoalStatus = "past_due"
	GoalOnTrack        GoalStatus = "on_track"
	GoalBehindSchedule GoalStatus = "behind_schedule"
)

// GoalProjection is a goal evaluated against a given "today".
type GoalProjection struct {
	Goal
	ProgressPct     float64         `json:"progress_pct"`
	ProgressBarPct  float64         `json:"progress_bar_pct"`
	Remaining       decimal.Decimal `json:"remaining"`
	MonthsRemaining int             `json:"months_remaining"`
	RequiredMonthly decimal.Decimal `json:"required_monthly"`
	IsOnTrack       bool            `json:"is_on_track"`
	IsPastDue       bool            `json:"is_past_due"`
	Status          GoalStatus      `json:"status"`
}

// GoalBook aggregates all of a user's goals.
type GoalBook struct {
	Goals                    []GoalProjection `json:"goals"`
	TotalTarget              decimal.Decimal  `json:"total_target"`
	TotalSaved               decimal.Decimal  `json:"total_saved"`
	TotalMonthlyContribution decimal.Decimal  `json:"total_monthly_contribution"`
}

// BudgetBand is one advisory bucket of the needs/wants/investments/savings split.
type BudgetBand struct {
	Pct          float64 `json:"pct"`
	TargetMin    float64 `json:"target_min"`
	TargetMax    float64 `json:"target_max"`
	WithinTarget bool    `json:"within_target"`
}

// BudgetSplit is the fixed 50/30/20-style classification of a month.
type BudgetSplit struct {
	Needs       BudgetBand `json:"needs"`
	Wants       BudgetBand `json:"wants"`
	Investments BudgetBand `json:"investments"`
	Savings     BudgetBand `json:"savings"`
}

// MonthlySummary is the dashboard: every figure for one user and month.
type MonthlySummary struct {
	Month            Month           `json:"month"`
	Range            DateRange       `json:"range"`
	Today            Date            `json:"today"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	FixedExpenses    decimal.Decimal `json:"fixed_expenses"`
	VariableExpenses decimal.Decimal `json:"variable_expenses"`
	TotalMonthlySIP  decimal.Decimal `json:"total_monthly_sip"`
	SavingsLeft      decimal.Decimal `json:"savings_left"`
	SavingsRatePct   float64         `json:"savings_rate_pct"`
	Expenses         ExpenseSummary  `json:"expenses"`
	Loans            LoanBook        `json:"loans"`
	Portfolio        Portfolio       `json:"portfolio"`
	Goals            GoalBook        `json:"goals"`
	Budget           BudgetSplit     `json:"budget"`
}

// Contains reports whether d falls inside the inclusive range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}
