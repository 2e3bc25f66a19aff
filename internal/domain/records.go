package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Records (one row per table in the record store)
// ============================================================

// Kind names an entity kind of the record store.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindLoan    Kind = "loan"
	KindFund    Kind = "fund"
	KindGoal    Kind = "goal"
)

// IncomeEntry is a single credit recorded for a user. Append/delete only.
// ExternalID names the statement line an entry was imported from and is
// unique per user when set.
type IncomeEntry struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Date       Date            `json:"date"`
	Source     string          `json:"source"`
	Amount     decimal.Decimal `json:"amount"`
	Account    string          `json:"account"`
	Notes      string          `json:"notes"`
	ExternalID string          `json:"external_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ExpenseEntry is a single debit. SubCategory must belong to Category's vocabulary.
type ExpenseEntry struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Date          Date            `json:"date"`
	Category      ExpenseCategory `json:"category"`
	SubCategory   string          `json:"sub_category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Note          string          `json:"vendor_note"`
	ExternalID    string          `json:"external_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Loan is an EMI obligation. RemainingMonths and OutstandingPrincipal are
// user-entered and authoritative; nothing derives them from the rate.
type Loan struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	LoanType             string          `json:"loan_type"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	InterestRatePct      decimal.Decimal `json:"interest_rate"`
	EMIAmount            decimal.Decimal `json:"emi_amount"`
	StartDate            Date            `json:"start_date"`
	EndDate              Date            `json:"end_date"`
	RemainingMonths      int             `json:"remaining_months"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	CreatedAt            time.Time       `json:"created_at"`
}

// Fund is a mutual-fund holding. SIPDay is nil when no SIP date is set.
type Fund struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	FundName       string          `json:"fund_name"`
	FundType       FundType        `json:"fund_type"`
	SIPAmount      decimal.Decimal `json:"sip_amount"`
	SIPDay         *int            `json:"sip_date"`
	LumpsumAmount  decimal.Decimal `json:"lumpsum_amount"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Goal is a savings target. CurrentSaved may exceed TargetAmount.
type Goal struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	GoalName            string          `json:"goal_name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	TargetDate          Date            `json:"target_date"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	CurrentSaved        decimal.Decimal `json:"current_saved"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Snapshot is an immutable, already-materialized set of records for one
// user and one month. Income and Expenses are month-scoped; the rest are not.
type Snapshot struct {
	Month    Month
	Income   []IncomeEntry
	Expenses []ExpenseEntry
	Loans    []Loan
	Funds    []Fund
	Goals    []Goal
}
