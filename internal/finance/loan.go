package finance

import (
	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// PaidPct is the repaid share of a loan, (total - outstanding) / total,
// clamped to [0, 100] for display. Inconsistent rows (outstanding above
// total, or a zero total) are tolerated rather than rejected.
func PaidPct(l domain.Loan) float64 {
	return ClampPct(PercentOf(l.TotalAmount.Sub(l.OutstandingPrincipal), l.TotalAmount))
}

// ProjectLoans evaluates every loan and the book totals. Remaining months
// and outstanding principal are taken as entered; no schedule is derived.
func ProjectLoans(loans []domain.Loan, totalIncome decimal.Decimal) domain.LoanBook {
	book := domain.LoanBook{
		Loans:            make([]domain.LoanProjection, 0, len(loans)),
		TotalEMI:         decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, l := range loans {
		book.Loans = append(book.Loans, domain.LoanProjection{Loan: l, PaidPct: PaidPct(l)})
		book.TotalEMI = book.TotalEMI.Add(l.EMIAmount)
		book.TotalOutstanding = book.TotalOutstanding.Add(l.OutstandingPrincipal)
	}
	book.DebtToIncomePct = PercentOf(book.TotalEMI, totalIncome)
	return book
}
