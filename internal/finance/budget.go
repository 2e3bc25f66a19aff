package finance

import (
	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// Advisory target bands, in percent of income. Nothing is enforced.
var (
	NeedsTarget       = [2]float64{55, 60}
	WantsTarget       = [2]float64{10, 20}
	InvestmentsTarget = [2]float64{15, 25}
	SavingsTarget     = [2]float64{5, 10}
)

// BudgetInput carries the month totals the classifier needs.
type BudgetInput struct {
	TotalIncome      decimal.Decimal
	FixedExpenses    decimal.Decimal
	VariableExpenses decimal.Decimal
	TotalEMI         decimal.Decimal
	TotalMonthlySIP  decimal.Decimal
	SavingsLeft      decimal.Decimal
}

// ClassifyBudget applies the fixed needs/wants/investments/savings split.
func ClassifyBudget(in BudgetInput) domain.BudgetSplit {
	return domain.BudgetSplit{
		Needs:       band(PercentOf(in.FixedExpenses.Add(in.TotalEMI), in.TotalIncome), NeedsTarget),
		Wants:       band(PercentOf(in.VariableExpenses, in.TotalIncome), WantsTarget),
		Investments: band(PercentOf(in.TotalMonthlySIP, in.TotalIncome), InvestmentsTarget),
		Savings:     band(PercentOf(in.SavingsLeft, in.TotalIncome), SavingsTarget),
	}
}

func band(pct float64, target [2]float64) domain.BudgetBand {
	return domain.BudgetBand{
		Pct:          pct,
		TargetMin:    target[0],
		TargetMax:    target[1],
		WithinTarget: pct >= target[0] && pct <= target[1],
	}
}
