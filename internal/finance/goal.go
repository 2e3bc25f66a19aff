package finance

import (
	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// daysPerMonth is the flat divisor used for "months remaining". It is an
// approximation, not calendar-month arithmetic.
const daysPerMonth = 30

// MonthsRemaining is max(0, floor(days from today to target / 30)).
func MonthsRemaining(target, today domain.Date) int {
	days := today.DaysUntil(target)
	if days <= 0 {
		return 0
	}
	return days / daysPerMonth
}

// ProjectGoal evaluates a goal against today. Today is an input so that
// projections are reproducible.
func ProjectGoal(g domain.Goal, today domain.Date) domain.GoalProjection {
	progress := PercentOf(g.CurrentSaved, g.TargetAmount)
	remaining := g.TargetAmount.Sub(g.CurrentSaved)
	months := MonthsRemaining(g.TargetDate, today)

	required := decimal.Zero
	if months > 0 {
		required = remaining.Div(decimal.NewFromInt(int64(months)))
	}
	onTrack := g.MonthlyContribution.GreaterThanOrEqual(required)
	pastDue := g.TargetDate.Before(today) && progress < 100

	return domain.GoalProjection{
		Goal:            g,
		ProgressPct:     progress,
		ProgressBarPct:  ClampPct(progress),
		Remaining:       remaining,
		MonthsRemaining: months,
		RequiredMonthly: required.Round(2),
		IsOnTrack:       onTrack,
		IsPastDue:       pastDue,
		Status:          goalStatus(progress, pastDue, onTrack),
	}
}

// goalStatus picks exactly one label. Achieved wins over past-due.
func goalStatus(progress float64, pastDue, onTrack bool) domain.GoalStatus {
	switch {
	case progress >= 100:
		return domain.GoalAchieved
	case pastDue:
		return domain.GoalPastDue
	case onTrack:
		return domain.GoalOnTrack
	default:
		return domain.GoalBehindSchedule
	}
}

// ProjectGoals evaluates every goal and the book totals.
func ProjectGoals(goals []domain.Goal, today domain.Date) domain.GoalBook {
	book := domain.GoalBook{
		Goals:                    make([]domain.GoalProjection, 0, len(goals)),
		TotalTarget:              decimal.Zero,
		TotalSaved:               decimal.Zero,
		TotalMonthlyContribution: decimal.Zero,
	}
	for _, g := range goals {
		book.Goals = append(book.Goals, ProjectGoal(g, today))
		book.TotalTarget = book.TotalTarget.Add(g.TargetAmount)
		book.TotalSaved = book.TotalSaved.Add(g.CurrentSaved)
		book.TotalMonthlyContribution = book.TotalMonthlyContribution.Add(g.MonthlyContribution)
	}
	return book
}
