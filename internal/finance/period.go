package finance

import (
	"fmt"

	"github.com/boddenberg/finance-tracker/internal/domain"
)

// PeriodMode selects how a month key resolves to a date range.
type PeriodMode int

const (
	// PeriodCalendar ends the range on the true last day of the month.
	PeriodCalendar PeriodMode = iota
	// PeriodLegacyDay31 ends every month on "day 31", normalized as a
	// calendar date. For short months this spills into the next month
	// (2024-02 ends on 2024-03-02). Kept for data recorded under that rule.
	PeriodLegacyDay31
)

// ParsePeriodMode maps the PERIOD_MODE setting to a mode.
func ParsePeriodMode(s string) (PeriodMode, error) {
	switch s {
	case "", "calendar":
		return PeriodCalendar, nil
	case "legacy31":
		return PeriodLegacyDay31, nil
	}
	return PeriodCalendar, fmt.Errorf("unknown period mode %q (want calendar or legacy31)", s)
}

func (m PeriodMode) String() string {
	if m == PeriodLegacyDay31 {
		return "legacy31"
	}
	return "calendar"
}

// MonthRange resolves a month key to an inclusive date range.
func MonthRange(m domain.Month, mode PeriodMode) domain.DateRange {
	to := m.LastDay()
	if mode == PeriodLegacyDay31 {
		to = domain.NewDate(m.Year, m.Month, 31)
	}
	return domain.DateRange{From: m.FirstDay(), To: to}
}

// Within keeps the records whose date falls inside r, preserving order.
func Within[T any](records []T, r domain.DateRange, date func(T) domain.Date) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if r.Contains(date(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

func incomeDate(e domain.IncomeEntry) domain.Date { return e.Date }
func expenseDate(e domain.ExpenseEntry) domain.Date { return e.Date }

// FilterIncome applies a period to an income snapshot.
func FilterIncome(entries []domain.IncomeEntry, r domain.DateRange) []domain.IncomeEntry {
	return Within(entries, r, incomeDate)
}

// FilterExpenses applies a period to an expense snapshot.
func FilterExpenses(entries []domain.ExpenseEntry, r domain.DateRange) []domain.ExpenseEntry {
	return Within(entries, r, expenseDate)
}
