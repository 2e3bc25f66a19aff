package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/port"
)

// memStore is an in-memory port.RecordStore. err, when set, fails every call.
type memStore struct {
	mu       sync.Mutex
	seq      int
	writes   int
	err      error
	income   []domain.IncomeEntry
	expenses []domain.ExpenseEntry
	loans    []domain.Loan
	funds    []domain.Fund
	goals    []domain.Goal
}

var _ port.RecordStore = (*memStore)(nil)

func (m *memStore) nextID(prefix string) string {
	m.seq++
	m.writes++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// taken mirrors the stores' unique (user_id, external_id) index.
func (m *memStore) taken(userID, externalID string) bool {
	if externalID == "" {
		return false
	}
	for _, e := range m.income {
		if e.UserID == userID && e.ExternalID == externalID {
			return true
		}
	}
	for _, e := range m.expenses {
		if e.UserID == userID && e.ExternalID == externalID {
			return true
		}
	}
	return false
}

func notFound(resource, id string) error {
	return &domain.ErrNotFound{Resource: resource, ID: id}
}

func (m *memStore) ListIncome(_ context.Context, userID string, r domain.DateRange) ([]domain.IncomeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.IncomeEntry
	for _, e := range m.income {
		if e.UserID == userID && r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateIncome(_ context.Context, e *domain.IncomeEntry) (*domain.IncomeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.taken(e.UserID, e.ExternalID) {
		return nil, fmt.Errorf("income: external id %q already stored", e.ExternalID)
	}
	c := *e
	c.ID = m.nextID("inc")
	m.income = append(m.income, c)
	return &c, nil
}

func (m *memStore) DeleteIncome(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, e := range m.income {
		if e.ID == id && e.UserID == userID {
			m.income = append(m.income[:i], m.income[i+1:]...)
			m.writes++
			return nil
		}
	}
	return notFound("income", id)
}

func (m *memStore) ListExpenses(_ context.Context, userID string, r domain.DateRange) ([]domain.ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.ExpenseEntry
	for _, e := range m.expenses {
		if e.UserID == userID && r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateExpense(_ context.Context, e *domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.taken(e.UserID, e.ExternalID) {
		return nil, fmt.Errorf("expenses: external id %q already stored", e.ExternalID)
	}
	c := *e
	c.ID = m.nextID("exp")
	m.expenses = append(m.expenses, c)
	return &c, nil
}

func (m *memStore) DeleteExpense(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, e := range m.expenses {
		if e.ID == id && e.UserID == userID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			m.writes++
			return nil
		}
	}
	return notFound("expense", id)
}

func (m *memStore) ListLoans(_ context.Context, userID string) ([]domain.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Loan
	for _, l := range m.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) CreateLoan(_ context.Context, l *domain.Loan) (*domain.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c := *l
	c.ID = m.nextID("loan")
	m.loans = append(m.loans, c)
	return &c, nil
}

func (m *memStore) UpdateLoan(_ context.Context, l *domain.Loan) (*domain.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i, cur := range m.loans {
		if cur.ID == l.ID && cur.UserID == l.UserID {
			c := *l
			c.CreatedAt = cur.CreatedAt
			m.loans[i] = c
			m.writes++
			return &c, nil
		}
	}
	return nil, notFound("loan", l.ID)
}

func (m *memStore) DeleteLoan(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, l := range m.loans {
		if l.ID == id && l.UserID == userID {
			m.loans = append(m.loans[:i], m.loans[i+1:]...)
			m.writes++
			return nil
		}
	}
	return notFound("loan", id)
}

func (m *memStore) ListFunds(_ context.Context, userID string) ([]domain.Fund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Fund
	for _, f := range m.funds {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStore) CreateFund(_ context.Context, f *domain.Fund) (*domain.Fund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c := *f
	c.ID = m.nextID("fund")
	m.funds = append(m.funds, c)
	return &c, nil
}

func (m *memStore) UpdateFund(_ context.Context, f *domain.Fund) (*domain.Fund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i, cur := range m.funds {
		if cur.ID == f.ID && cur.UserID == f.UserID {
			c := *f
			c.CreatedAt = cur.CreatedAt
			m.funds[i] = c
			m.writes++
			return &c, nil
		}
	}
	return nil, notFound("fund", f.ID)
}

func (m *memStore) DeleteFund(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, f := range m.funds {
		if f.ID == id && f.UserID == userID {
			m.funds = append(m.funds[:i], m.funds[i+1:]...)
			m.writes++
			return nil
		}
	}
	return notFound("fund", id)
}

func (m *memStore) ListGoals(_ context.Context, userID string) ([]domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) CreateGoal(_ context.Context, g *domain.Goal) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c := *g
	c.ID = m.nextID("goal")
	m.goals = append(m.goals, c)
	return &c, nil
}

func (m *memStore) UpdateGoal(_ context.Context, g *domain.Goal) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i, cur := range m.goals {
		if cur.ID == g.ID && cur.UserID == g.UserID {
			c := *g
			c.CreatedAt = cur.CreatedAt
			m.goals[i] = c
			m.writes++
			return &c, nil
		}
	}
	return nil, notFound("goal", g.ID)
}

func (m *memStore) DeleteGoal(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, g := range m.goals {
		if g.ID == id && g.UserID == userID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			m.writes++
			return nil
		}
	}
	return notFound("goal", id)
}

func (m *memStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
