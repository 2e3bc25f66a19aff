package finance

import (
	"sort"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// Performance computes a single fund's absolute and relative returns.
func Performance(f domain.Fund) domain.FundPerformance {
	returns := f.CurrentValue.Sub(f.InvestedAmount)
	return domain.FundPerformance{
		Fund:       f,
		Returns:    returns,
		ReturnsPct: PercentOf(returns, f.InvestedAmount),
	}
}

// BuildPortfolio aggregates funds. Portfolio returns % comes from the summed
// invested and current values, not from averaging per-fund percentages.
func BuildPortfolio(funds []domain.Fund) domain.Portfolio {
	p := domain.Portfolio{
		Funds:             make([]domain.FundPerformance, 0, len(funds)),
		TotalSIP:          Sum(funds, func(f domain.Fund) decimal.Decimal { return f.SIPAmount }),
		TotalInvested:     Sum(funds, func(f domain.Fund) decimal.Decimal { return f.InvestedAmount }),
		TotalCurrentValue: Sum(funds, func(f domain.Fund) decimal.Decimal { return f.CurrentValue }),
	}
	for _, f := range funds {
		p.Funds = append(p.Funds, Performance(f))
	}
	p.Returns = p.TotalCurrentValue.Sub(p.TotalInvested)
	p.ReturnsPct = PercentOf(p.Returns, p.TotalInvested)
	p.Allocation = Allocation(funds, p.TotalCurrentValue)
	return p
}

// Allocation groups current value by fund type. Buckets appear only for types
// that hold at least one fund, known types first in display order.
func Allocation(funds []domain.Fund, portfolioValue decimal.Decimal) []domain.AllocationBucket {
	byType := GroupSum(funds, func(f domain.Fund) domain.FundType { return f.FundType },
		func(f domain.Fund) decimal.Decimal { return f.CurrentValue })
	counts := make(map[domain.FundType]int, len(byType))
	for _, f := range funds {
		counts[f.FundType]++
	}

	order := domain.FundTypes()
	var unknown []domain.FundType
	for t := range byType {
		if !t.Valid() {
			unknown = append(unknown, t)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	order = append(order, unknown...)

	out := make([]domain.AllocationBucket, 0, len(byType))
	for _, t := range order {
		value, ok := byType[t]
		if !ok {
			continue
		}
		out = append(out, domain.AllocationBucket{
			FundType: t,
			Value:    value,
			Pct:      PercentOf(value, portfolioValue),
			Count:    counts[t],
		})
	}
	return out
}
