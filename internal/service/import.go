package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/ofx"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImportResult reports what an OFX import did.
type ImportResult struct {
	Income     int             `json:"income"`
	Expenses   int             `json:"expenses"`
	Skipped    int             `json:"skipped"`
	Duplicates int             `json:"duplicates"`
	Rejected   []ImportProblem `json:"rejected,omitempty"`
}

// ImportProblem is a statement line that failed validation.
type ImportProblem struct {
	FITID  string `json:"fitid"`
	Reason string `json:"reason"`
}

// ImportStatement stores every draft of a parsed statement for userID.
// Lines failing validation are reported and skipped; a store failure
// aborts the import. A line whose external id is already stored for the
// user, or appears earlier in the same file, is counted as a duplicate and
// not written, so re-importing a statement is a no-op. With dryRun nothing
// is written.
func (s *FinanceService) ImportStatement(ctx context.Context, userID string, st *ofx.Statement, dryRun bool) (*ImportResult, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.ImportStatement")
	defer span.End()

	res := &ImportResult{Skipped: st.Skipped}
	seen, err := s.importedIDs(ctx, userID, st.Drafts)
	if err != nil {
		return res, err
	}

	for _, d := range st.Drafts {
		key := d.ExternalID
		if key != "" {
			if _, dup := seen[key]; dup {
				res.Duplicates++
				continue
			}
			seen[key] = struct{}{}
		}

		err = nil
		switch {
		case d.Income != nil:
			e := *d.Income
			if dryRun {
				e.UserID = userID
				err = validateIncome(&e)
			} else {
				_, err = s.CreateIncome(ctx, userID, key, &e)
			}
			if err == nil {
				res.Income++
			}
		case d.Expense != nil:
			e := *d.Expense
			if dryRun {
				e.UserID = userID
				err = validateExpense(&e)
			} else {
				_, err = s.CreateExpense(ctx, userID, key, &e)
			}
			if err == nil {
				res.Expenses++
			}
		}

		var verr *domain.ErrValidation
		var derr *domain.ErrDuplicate
		switch {
		case err == nil:
		case errors.As(err, &verr), errors.As(err, &derr):
			res.Rejected = append(res.Rejected, ImportProblem{FITID: d.FITID, Reason: err.Error()})
		default:
			return res, err
		}
	}

	s.logger.Info("statement imported",
		zap.String("user_id", userID),
		zap.Bool("dry_run", dryRun),
		zap.Int("income", res.Income),
		zap.Int("expenses", res.Expenses),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

// importedIDs returns the external ids already stored for userID within the
// date span of drafts.
func (s *FinanceService) importedIDs(ctx context.Context, userID string, drafts []ofx.Draft) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	span, ok := draftSpan(drafts)
	if !ok {
		return seen, nil
	}

	var income []domain.IncomeEntry
	var expenses []domain.ExpenseEntry
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListIncome(gCtx, userID, span)
		income = rows
		return s.observe("list_income", err)
	})
	g.Go(func() error {
		rows, err := s.store.ListExpenses(gCtx, userID, span)
		expenses = rows
		return s.observe("list_expenses", err)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load imported lines: %w", err)
	}

	for _, e := range income {
		if e.ExternalID != "" {
			seen[e.ExternalID] = struct{}{}
		}
	}
	for _, e := range expenses {
		if e.ExternalID != "" {
			seen[e.ExternalID] = struct{}{}
		}
	}
	return seen, nil
}

// draftSpan is the inclusive date range covering every draft.
func draftSpan(drafts []ofx.Draft) (domain.DateRange, bool) {
	var r domain.DateRange
	found := false
	for _, d := range drafts {
		var date domain.Date
		switch {
		case d.Income != nil:
			date = d.Income.Date
		case d.Expense != nil:
			date = d.Expense.Date
		default:
			continue
		}
		if !found || date.Before(r.From) {
			r.From = date
		}
		if !found || date.After(r.To) {
			r.To = date
		}
		found = true
	}
	return r, found
}
