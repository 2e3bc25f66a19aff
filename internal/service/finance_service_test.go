package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/finance"
	"github.com/boddenberg/finance-tracker/internal/infra/cache"
	"github.com/boddenberg/finance-tracker/internal/infra/observability"
	"github.com/boddenberg/finance-tracker/internal/infra/ofx"
	"github.com/boddenberg/finance-tracker/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const user = "user-1"

var now = time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T, store *memStore) (*service.FinanceService, *observability.Metrics) {
	t.Helper()
	replays := cache.New[any](time.Minute)
	t.Cleanup(replays.Close)
	metrics := observability.NewMetrics()
	svc := service.NewFinanceService(
		store,
		replays,
		finance.PeriodCalendar,
		service.ClockFunc(func() time.Time { return now }),
		metrics,
		zap.NewNop(),
	)
	return svc, metrics
}

func seeded() *memStore {
	return &memStore{
		income: []domain.IncomeEntry{
			{ID: "i1", UserID: user, Date: domain.MustParseDate("2024-05-01"), Source: "Salary", Amount: dec("50000")},
			{ID: "i2", UserID: user, Date: domain.MustParseDate("2024-04-30"), Source: "Salary", Amount: dec("48000")},
			{ID: "i3", UserID: "someone-else", Date: domain.MustParseDate("2024-05-01"), Source: "Salary", Amount: dec("99999")},
		},
		expenses: []domain.ExpenseEntry{
			{ID: "e1", UserID: user, Date: domain.MustParseDate("2024-05-03"), Category: domain.CategoryFixed, SubCategory: "Rent", Amount: dec("15000")},
			{ID: "e2", UserID: user, Date: domain.MustParseDate("2024-05-31"), Category: domain.CategoryVariable, SubCategory: "Food", Amount: dec("5000")},
		},
		loans: []domain.Loan{
			{ID: "l1", UserID: user, LoanType: "Home", TotalAmount: dec("1000000"), EMIAmount: dec("10000"), OutstandingPrincipal: dec("400000")},
		},
		funds: []domain.Fund{
			{ID: "f1", UserID: user, FundName: "Nifty 50", FundType: domain.FundIndex, SIPAmount: dec("8000"), InvestedAmount: dec("100000"), CurrentValue: dec("120000")},
		},
		goals: []domain.Goal{
			{ID: "g1", UserID: user, GoalName: "Car", TargetAmount: dec("120000"), TargetDate: domain.MustParseDate("2024-11-11"), MonthlyContribution: dec("10000"), CurrentSaved: dec("30000")},
		},
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboard_DefaultsToCurrentMonth(t *testing.T) {
	svc, metrics := newService(t, seeded())

	summary, err := svc.Dashboard(context.Background(), user, domain.Month{})
	require.NoError(t, err)

	assert.Equal(t, "2024-05", summary.Month.String())
	assert.Equal(t, "2024-05-15", summary.Today.String())
	assert.Equal(t, "2024-05-31", summary.Range.To.String())
	assert.True(t, dec("50000").Equal(summary.TotalIncome), "income %s", summary.TotalIncome)
	assert.True(t, dec("20000").Equal(summary.TotalExpenses), "expenses %s", summary.TotalExpenses)
	assert.True(t, dec("22000").Equal(summary.SavingsLeft), "savings %s", summary.SavingsLeft)
	assert.Equal(t, 20.0, summary.Loans.DebtToIncomePct)
	require.Len(t, summary.Goals.Goals, 1)
	assert.Equal(t, domain.GoalBehindSchedule, summary.Goals.Goals[0].Status)

	assert.Equal(t, int64(1), metrics.Snapshot().DashboardsServed)
}

func TestDashboard_ExplicitMonth(t *testing.T) {
	svc, _ := newService(t, seeded())

	summary, err := svc.Dashboard(context.Background(), user, domain.Month{Year: 2024, Month: time.April})
	require.NoError(t, err)

	assert.True(t, dec("48000").Equal(summary.TotalIncome))
	assert.True(t, summary.TotalExpenses.IsZero())
}

func TestDashboard_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc, metrics := newService(t, &memStore{err: boom})

	_, err := svc.Dashboard(context.Background(), user, domain.Month{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(5), snap.StoreErrors)
	assert.Equal(t, int64(0), snap.DashboardsServed)
}

// ============================================================
// Income & expenses
// ============================================================

func TestIncome_MonthScopedWithTotal(t *testing.T) {
	svc, _ := newService(t, seeded())

	got, err := svc.Income(context.Background(), user, domain.Month{Year: 2024, Month: time.May})
	require.NoError(t, err)

	require.Len(t, got.Entries, 1)
	assert.Equal(t, "i1", got.Entries[0].ID)
	assert.True(t, dec("50000").Equal(got.Total))
}

func TestExpenses_Breakdown(t *testing.T) {
	svc, _ := newService(t, seeded())

	got, err := svc.Expenses(context.Background(), user, domain.Month{})
	require.NoError(t, err)

	assert.True(t, dec("15000").Equal(got.Fixed))
	assert.True(t, dec("5000").Equal(got.Variable))
	require.Len(t, got.TopCategories, 2)
	assert.Equal(t, "Rent", got.TopCategories[0].Key)
}

func TestCreateExpense_DefaultsToVariable(t *testing.T) {
	store := &memStore{}
	svc, metrics := newService(t, store)

	created, err := svc.CreateExpense(context.Background(), user, "", &domain.ExpenseEntry{
		Date:        domain.MustParseDate("2024-05-10"),
		SubCategory: "Groceries",
		Amount:      dec("1250.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryVariable, created.Category)
	assert.Equal(t, user, created.UserID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), metrics.Snapshot().RecordsWritten)
}

func TestCreateExpense_RejectsForeignSubCategory(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)

	_, err := svc.CreateExpense(context.Background(), user, "", &domain.ExpenseEntry{
		Date:        domain.MustParseDate("2024-05-10"),
		Category:    domain.CategoryFixed,
		SubCategory: "Food",
		Amount:      dec("10"),
	})

	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sub_category", verr.Field)
	assert.Zero(t, store.Writes())
}

func TestDeleteIncome_NotFoundIsNotAStoreError(t *testing.T) {
	svc, metrics := newService(t, seeded())

	err := svc.DeleteIncome(context.Background(), user, "i3")

	var nf *domain.ErrNotFound
	require.ErrorAs(t, err, &nf)
	snap := metrics.Snapshot()
	assert.Equal(t, int64(0), snap.StoreErrors)
	assert.Equal(t, int64(0), snap.RecordsWritten)
}

func TestCategories(t *testing.T) {
	svc, _ := newService(t, &memStore{})

	cats := svc.Categories()
	assert.Contains(t, cats[domain.CategoryFixed], "EMI")
	assert.Contains(t, cats[domain.CategoryVariable], "Healthcare")
	assert.Len(t, cats, 2)
}

// ============================================================
// Loans, funds, goals
// ============================================================

func TestLoans_DebtToIncomeUsesCurrentMonth(t *testing.T) {
	svc, _ := newService(t, seeded())

	book, err := svc.Loans(context.Background(), user)
	require.NoError(t, err)

	require.Len(t, book.Loans, 1)
	assert.Equal(t, 60.0, book.Loans[0].PaidPct)
	assert.Equal(t, 20.0, book.DebtToIncomePct)
}

func TestUpdateLoan_ValidatesAndReplaces(t *testing.T) {
	svc, _ := newService(t, seeded())
	ctx := context.Background()

	_, err := svc.UpdateLoan(ctx, user, "l1", &domain.Loan{
		LoanType:             "Home",
		TotalAmount:          dec("100"),
		OutstandingPrincipal: dec("200"),
		StartDate:            domain.MustParseDate("2020-01-01"),
		EndDate:              domain.MustParseDate("2030-01-01"),
	})
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "outstanding_principal", verr.Field)

	updated, err := svc.UpdateLoan(ctx, user, "l1", &domain.Loan{
		LoanType:             "Home",
		TotalAmount:          dec("1000000"),
		EMIAmount:            dec("10000"),
		OutstandingPrincipal: dec("390000"),
		RemainingMonths:      39,
		StartDate:            domain.MustParseDate("2020-01-01"),
		EndDate:              domain.MustParseDate("2027-08-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "l1", updated.ID)
	assert.Equal(t, 39, updated.RemainingMonths)
}

func TestUpdateLoan_OtherUsersLoanIsNotFound(t *testing.T) {
	svc, _ := newService(t, seeded())

	_, err := svc.UpdateLoan(context.Background(), "intruder", "l1", &domain.Loan{
		LoanType:    "Home",
		TotalAmount: dec("1"),
		StartDate:   domain.MustParseDate("2020-01-01"),
		EndDate:     domain.MustParseDate("2021-01-01"),
	})

	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateFund_StampsUpdatedAt(t *testing.T) {
	svc, _ := newService(t, seeded())

	day := 5
	updated, err := svc.UpdateFund(context.Background(), user, "f1", &domain.Fund{
		FundName:       "Nifty 50",
		FundType:       domain.FundIndex,
		SIPAmount:      dec("9000"),
		SIPDay:         &day,
		InvestedAmount: dec("109000"),
		CurrentValue:   dec("125000"),
	})
	require.NoError(t, err)
	assert.True(t, now.Equal(updated.UpdatedAt))

	p, err := svc.Portfolio(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, dec("9000").Equal(p.TotalSIP))
}

func TestCreateFund_RejectsSIPDayOutOfRange(t *testing.T) {
	svc, _ := newService(t, &memStore{})

	day := 32
	_, err := svc.CreateFund(context.Background(), user, "", &domain.Fund{
		FundName: "Liquid",
		FundType: domain.FundDebt,
		SIPDay:   &day,
	})

	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sip_date", verr.Field)
}

func TestGoals_ProjectedAgainstClock(t *testing.T) {
	svc, _ := newService(t, seeded())

	book, err := svc.Goals(context.Background(), user)
	require.NoError(t, err)

	require.Len(t, book.Goals, 1)
	g := book.Goals[0]
	assert.Equal(t, 6, g.MonthsRemaining)
	assert.True(t, dec("15000").Equal(g.RequiredMonthly), "required %s", g.RequiredMonthly)
	assert.False(t, g.IsOnTrack)
}

func TestValidation(t *testing.T) {
	svc, _ := newService(t, &memStore{})
	ctx := context.Background()
	may := domain.MustParseDate("2024-05-01")

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"income without source", func() error {
			_, err := svc.CreateIncome(ctx, user, "", &domain.IncomeEntry{Date: may, Source: "  ", Amount: dec("1")})
			return err
		}, "source"},
		{"income negative", func() error {
			_, err := svc.CreateIncome(ctx, user, "", &domain.IncomeEntry{Date: may, Source: "Salary", Amount: dec("-1")})
			return err
		}, "amount"},
		{"income without date", func() error {
			_, err := svc.CreateIncome(ctx, user, "", &domain.IncomeEntry{Source: "Salary", Amount: dec("1")})
			return err
		}, "date"},
		{"loan ends before start", func() error {
			_, err := svc.CreateLoan(ctx, user, "", &domain.Loan{
				LoanType: "Car", TotalAmount: dec("10"),
				StartDate: may, EndDate: may.AddDays(-1),
			})
			return err
		}, "end_date"},
		{"loan negative months", func() error {
			_, err := svc.CreateLoan(ctx, user, "", &domain.Loan{
				LoanType: "Car", TotalAmount: dec("10"), RemainingMonths: -1,
				StartDate: may, EndDate: may,
			})
			return err
		}, "remaining_months"},
		{"fund unknown type", func() error {
			_, err := svc.CreateFund(ctx, user, "", &domain.Fund{FundName: "X", FundType: "Crypto"})
			return err
		}, "fund_type"},
		{"goal zero target", func() error {
			_, err := svc.CreateGoal(ctx, user, "", &domain.Goal{GoalName: "Trip", TargetDate: may})
			return err
		}, "target_amount"},
		{"goal negative saved", func() error {
			_, err := svc.CreateGoal(ctx, user, "", &domain.Goal{GoalName: "Trip", TargetAmount: dec("1"), TargetDate: may, CurrentSaved: dec("-5")})
			return err
		}, "current_saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *domain.ErrValidation
			require.ErrorAs(t, tt.call(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

// ============================================================
// Idempotency
// ============================================================

func newGoal() *domain.Goal {
	return &domain.Goal{GoalName: "Emergency fund", TargetAmount: dec("300000"), TargetDate: domain.MustParseDate("2025-12-31")}
}

func TestCreate_IdempotencyKeyReplays(t *testing.T) {
	store := &memStore{}
	svc, metrics := newService(t, store)
	ctx := context.Background()

	first, err := svc.CreateGoal(ctx, user, "key-1", newGoal())
	require.NoError(t, err)
	second, err := svc.CreateGoal(ctx, user, "key-1", newGoal())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Writes())

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.RecordsWritten)
	assert.Equal(t, int64(1), snap.IdempotentReplays)
}

func TestCreate_IdempotencyKeyIsPerUser(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)
	ctx := context.Background()

	a, err := svc.CreateGoal(ctx, "alice", "key-1", newGoal())
	require.NoError(t, err)
	b, err := svc.CreateGoal(ctx, "bob", "key-1", newGoal())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Writes())
}

func TestCreate_IdempotencyKeyReusedForOtherKind(t *testing.T) {
	svc, _ := newService(t, &memStore{})
	ctx := context.Background()

	_, err := svc.CreateGoal(ctx, user, "key-1", newGoal())
	require.NoError(t, err)

	_, err = svc.CreateIncome(ctx, user, "key-1", &domain.IncomeEntry{
		Date: domain.MustParseDate("2024-05-01"), Source: "Bonus", Amount: dec("100"),
	})
	var dup *domain.ErrDuplicate
	assert.ErrorAs(t, err, &dup)
}

func TestCreate_ConcurrentDuplicatesWriteOnce(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := svc.CreateGoal(context.Background(), user, "same", newGoal())
			if err == nil {
				ids[i] = g.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.Writes())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestCreate_FailedWriteIsNotCached(t *testing.T) {
	store := &memStore{err: errors.New("down")}
	svc, _ := newService(t, store)
	ctx := context.Background()

	_, err := svc.CreateGoal(ctx, user, "retry-me", newGoal())
	require.Error(t, err)

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	g, err := svc.CreateGoal(ctx, user, "retry-me", newGoal())
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
}

// ============================================================
// Statement import
// ============================================================

func statement() *ofx.Statement {
	return &ofx.Statement{
		Skipped: 1,
		Drafts: []ofx.Draft{
			{FITID: "T1", ExternalID: "ofx:5010001234:T1", Income: &domain.IncomeEntry{Date: domain.MustParseDate("2024-05-01"), Source: "ACME PAYROLL", Amount: dec("50000"), Account: "HDFC", ExternalID: "ofx:5010001234:T1"}},
			{FITID: "T2", ExternalID: "ofx:5010001234:T2", Expense: &domain.ExpenseEntry{Date: domain.MustParseDate("2024-05-02"), Category: domain.CategoryVariable, SubCategory: "Other", Amount: dec("499"), PaymentMethod: "Debit Card", ExternalID: "ofx:5010001234:T2"}},
			{FITID: "T3", ExternalID: "ofx:5010001234:T3", Expense: &domain.ExpenseEntry{Date: domain.MustParseDate("2024-05-03"), Category: domain.CategoryVariable, SubCategory: "Bitcoin", Amount: dec("1"), ExternalID: "ofx:5010001234:T3"}},
		},
	}
}

func TestImportStatement(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)
	ctx := context.Background()

	res, err := svc.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Income)
	assert.Equal(t, 1, res.Expenses)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Duplicates)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "T3", res.Rejected[0].FITID)
	assert.Equal(t, 2, store.Writes())
	assert.Equal(t, "ofx:5010001234:T1", store.income[0].ExternalID)
	assert.Equal(t, "ofx:5010001234:T2", store.expenses[0].ExternalID)

	// the stored lines are found again and the rejected one is retried
	again, err := svc.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Duplicates)
	assert.Zero(t, again.Income)
	assert.Zero(t, again.Expenses)
	assert.Len(t, again.Rejected, 1)
	assert.Equal(t, 2, store.Writes())
}

func TestImportStatement_ReimportThroughAFreshService(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	first, _ := newService(t, store)
	_, err := first.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)
	require.Equal(t, 2, store.Writes())

	// a new process starts with an empty replay cache
	second, metrics := newService(t, store)
	res, err := second.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Duplicates)
	assert.Zero(t, res.Income+res.Expenses)
	assert.Equal(t, 2, store.Writes())
	assert.Zero(t, metrics.Snapshot().IdempotentReplays)
}

func TestImportStatement_SameFITIDOnTwoAccounts(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)

	day := domain.MustParseDate("2024-05-04")
	st := &ofx.Statement{Drafts: []ofx.Draft{
		{FITID: "0001", ExternalID: "ofx:5010001234:0001", Expense: &domain.ExpenseEntry{Date: day, Category: domain.CategoryVariable, SubCategory: "Other", Amount: dec("300"), ExternalID: "ofx:5010001234:0001"}},
		{FITID: "0001", ExternalID: "ofx:4111000011112222:0001", Expense: &domain.ExpenseEntry{Date: day, Category: domain.CategoryVariable, SubCategory: "Other", Amount: dec("4500"), ExternalID: "ofx:4111000011112222:0001"}},
	}}

	res, err := svc.ImportStatement(context.Background(), user, st, false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Expenses)
	assert.Zero(t, res.Duplicates)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, 2, store.Writes())
}

func TestImportStatement_RepeatedLineInOneFile(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)

	st := statement()
	st.Drafts = append(st.Drafts, st.Drafts[0])

	res, err := svc.ImportStatement(context.Background(), user, st, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Income)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 2, store.Writes())
}

func TestImportStatement_OtherUsersLinesAreNotDuplicates(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)
	ctx := context.Background()

	_, err := svc.ImportStatement(ctx, "someone-else", statement(), false)
	require.NoError(t, err)

	res, err := svc.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)
	assert.Zero(t, res.Duplicates)
	assert.Equal(t, 4, store.Writes())
}

func TestImportStatement_DryRunWritesNothing(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)

	res, err := svc.ImportStatement(context.Background(), user, statement(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Income)
	assert.Equal(t, 1, res.Expenses)
	assert.Len(t, res.Rejected, 1)
	assert.Zero(t, store.Writes())
}

func TestImportStatement_DryRunReportsDuplicates(t *testing.T) {
	store := &memStore{}
	svc, _ := newService(t, store)
	ctx := context.Background()

	_, err := svc.ImportStatement(ctx, user, statement(), false)
	require.NoError(t, err)

	res, err := svc.ImportStatement(ctx, user, statement(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Duplicates)
	assert.Zero(t, res.Income+res.Expenses)
	assert.Equal(t, 2, store.Writes())
}

func TestImportStatement_StoreFailureAborts(t *testing.T) {
	svc, _ := newService(t, &memStore{err: errors.New("down")})

	_, err := svc.ImportStatement(context.Background(), user, statement(), false)
	assert.Error(t, err)
}
