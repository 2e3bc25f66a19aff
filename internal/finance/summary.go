package finance

import (
	"github.com/boddenberg/finance-tracker/internal/domain"
)

// TopExpenseCategories is how many sub-category buckets the dashboard shows.
const TopExpenseCategories = 8

// BuildMonthlySummary reduces a snapshot into the dashboard figures. Income
// and expenses are re-filtered to r, so a wider snapshot is safe to pass.
func BuildMonthlySummary(snap domain.Snapshot, r domain.DateRange, today domain.Date) domain.MonthlySummary {
	income := FilterIncome(snap.Income, r)
	expenses := SummarizeExpenses(FilterExpenses(snap.Expenses, r), TopExpenseCategories)

	totalIncome := TotalIncome(income)
	portfolio := BuildPortfolio(snap.Funds)
	loans := ProjectLoans(snap.Loans, totalIncome)
	savings := SavingsLeft(totalIncome, expenses.Total, portfolio.TotalSIP)

	return domain.MonthlySummary{
		Month:            snap.Month,
		Range:            r,
		Today:            today,
		TotalIncome:      totalIncome,
		TotalExpenses:    expenses.Total,
		FixedExpenses:    expenses.Fixed,
		VariableExpenses: expenses.Variable,
		TotalMonthlySIP:  portfolio.TotalSIP,
		SavingsLeft:      savings,
		SavingsRatePct:   PercentOf(savings, totalIncome),
		Expenses:         expenses,
		Loans:            loans,
		Portfolio:        portfolio,
		Goals:            ProjectGoals(snap.Goals, today),
		Budget: ClassifyBudget(BudgetInput{
			TotalIncome:      totalIncome,
			FixedExpenses:    expenses.Fixed,
			VariableExpenses: expenses.Variable,
			TotalEMI:         loans.TotalEMI,
			TotalMonthlySIP:  portfolio.TotalSIP,
			SavingsLeft:      savings,
		}),
	}
}
