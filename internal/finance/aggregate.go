package finance

import (
	"math"
	"sort"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sum totals amount over records. The empty sum is zero.
func Sum[T any](records []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(amount(r))
	}
	return total
}

// SumWhere totals amount over the records matching keep.
func SumWhere[T any](records []T, keep func(T) bool, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if keep(r) {
			total = total.Add(amount(r))
		}
	}
	return total
}

// GroupSum totals amount per key.
func GroupSum[T any, K comparable](records []T, key func(T) K, amount func(T) decimal.Decimal) map[K]decimal.Decimal {
	out := make(map[K]decimal.Decimal)
	for _, r := range records {
		k := key(r)
		out[k] = out[k].Add(amount(r))
	}
	return out
}

// PercentOf returns part/whole*100, or 0 when whole is not positive.
func PercentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// SavingsLeft is income minus expenses minus monthly SIP. Not clamped.
func SavingsLeft(totalIncome, totalExpenses, totalMonthlySIP decimal.Decimal) decimal.Decimal {
	return totalIncome.Sub(totalExpenses).Sub(totalMonthlySIP)
}

// TopCategories orders a breakdown by total descending (ties by key) and
// keeps at most n buckets. n <= 0 keeps all of them.
func TopCategories(breakdown map[string]decimal.Decimal, n int) []domain.CategoryTotal {
	out := make([]domain.CategoryTotal, 0, len(breakdown))
	for k, v := range breakdown {
		out = append(out, domain.CategoryTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ClampPct bounds a display percentage to [0, 100].
func ClampPct(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}

// Round rounds x to the given number of decimal places, halves away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func incomeAmount(e domain.IncomeEntry) decimal.Decimal { return e.Amount }
func expenseAmount(e domain.ExpenseEntry) decimal.Decimal { return e.Amount }

// TotalIncome sums a month's income entries.
func TotalIncome(entries []domain.IncomeEntry) decimal.Decimal {
	return Sum(entries, incomeAmount)
}

// SummarizeExpenses builds the expense view: totals, the Fixed/Variable
// split, the sub-category breakdown and its top buckets.
func SummarizeExpenses(entries []domain.ExpenseEntry, top int) domain.ExpenseSummary {
	isFixed := func(e domain.ExpenseEntry) bool { return e.Category == domain.CategoryFixed }
	isVariable := func(e domain.ExpenseEntry) bool { return e.Category == domain.CategoryVariable }
	bySub := GroupSum(entries, func(e domain.ExpenseEntry) string { return e.SubCategory }, expenseAmount)

	return domain.ExpenseSummary{
		Entries:       entries,
		Total:         Sum(entries, expenseAmount),
		Fixed:         SumWhere(entries, isFixed, expenseAmount),
		Variable:      SumWhere(entries, isVariable, expenseAmount),
		BySubCategory: bySub,
		TopCategories: TopCategories(bySub, top),
	}
}
