package domain

import "fmt"

// ExpenseCategory splits spending into obligatory and discretionary.
type ExpenseCategory string

const (
	CategoryFixed    ExpenseCategory = "Fixed"
	CategoryVariable ExpenseCategory = "Variable"
)

// expenseVocabulary is the fixed category -> sub-category mapping the
// expense form offers. "Other" is valid under both categories.
var expenseVocabulary = map[ExpenseCategory][]string{
	CategoryFixed:    {"Rent", "EMI", "Electricity", "Water", "Internet", "Mobile", "Insurance", "Other"},
	CategoryVariable: {"Food", "Groceries", "Fuel", "Travel", "Shopping", "Entertainment", "Healthcare", "Other"},
}

// ExpenseCategories lists categories in display order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{CategoryFixed, CategoryVariable}
}

// SubCategories returns a copy of the allowed sub-categories for c.
func SubCategories(c ExpenseCategory) []string {
	return append([]string(nil), expenseVocabulary[c]...)
}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	_, ok := expenseVocabulary[c]
	return ok
}

// ValidateSubCategory checks that sub is allowed under c.
func (c ExpenseCategory) ValidateSubCategory(sub string) error {
	if !c.Valid() {
		return &ErrValidation{Field: "category", Message: fmt.Sprintf("unknown category %q", c)}
	}
	for _, s := range expenseVocabulary[c] {
		if s == sub {
			return nil
		}
	}
	return &ErrValidation{Field: "sub_category", Message: fmt.Sprintf("%q is not a %s sub-category", sub, c)}
}

// FundType classifies a mutual fund for allocation breakdowns.
type FundType string

const (
	FundEquity FundType = "Equity"
	FundDebt   FundType = "Debt"
	FundHybrid FundType = "Hybrid"
	FundIndex  FundType = "Index"
)

// FundTypes lists fund types in display order.
func FundTypes() []FundType {
	return []FundType{FundEquity, FundDebt, FundHybrid, FundIndex}
}

func (t FundType) Valid() bool {
	switch t {
	case FundEquity, FundDebt, FundHybrid, FundIndex:
		return true
	}
	return false
}
