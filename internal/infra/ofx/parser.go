// Package ofx turns OFX/QFX bank and credit-card statements into income
// and expense drafts. Drafts carry no user and are validated by the
// service before anything is stored.
package ofx

import (
	"crypto/sha256"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Draft is one statement line mapped to exactly one of Income or Expense.
// ExternalID is also set on the entry; it is "ofx:<account>:<fitid>", or a
// content hash when the bank sent no FITID.
type Draft struct {
	FITID      string
	ExternalID string
	Income     *domain.IncomeEntry
	Expense    *domain.ExpenseEntry
}

// Statement is the parsed content of one file.
type Statement struct {
	Drafts   []Draft
	Accounts []string
	Skipped  int // zero-amount lines
}

// Options tunes the mapping.
type Options struct {
	// Account overrides the OFX account id written to income entries.
	Account string
}

var severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)

// normalize fixes formatting that ofxgo rejects but banks emit.
func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n\uFEFF")
	return severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
}

// Parse reads an OFX document. Credits become income and debits become
// Variable/Other expenses; both keep the posting date.
func Parse(r io.Reader, opts Options) (*Statement, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("parse OFX file: %w", err)
	}

	st := &Statement{}
	accounts := make(map[string]struct{})

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		acct := string(stmt.BankAcctFrom.AcctID)
		accounts[acct] = struct{}{}
		st.add(stmt.BankTranList.Transactions, acct, pick(opts.Account, acct), false)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		acct := string(stmt.CCAcctFrom.AcctID)
		accounts[acct] = struct{}{}
		st.add(stmt.BankTranList.Transactions, acct, pick(opts.Account, acct), true)
	}

	for a := range accounts {
		st.Accounts = append(st.Accounts, a)
	}
	sort.Strings(st.Accounts)
	return st, nil
}

func (st *Statement) add(txns []ofxgo.Transaction, acctID, account string, creditCard bool) {
	for _, tx := range txns {
		amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)
		if amount.IsZero() {
			st.Skipped++
			continue
		}

		date := domain.DateOf(tx.DtPosted.Time)
		label := payee(tx)
		d := Draft{FITID: strings.TrimSpace(string(tx.FiTID))}
		d.ExternalID = externalID(acctID, d.FITID, date, amount, label)

		if amount.IsPositive() {
			d.Income = &domain.IncomeEntry{
				Date:       date,
				Source:     label,
				Amount:     amount,
				Account:    account,
				Notes:      strings.TrimSpace(string(tx.Memo)),
				ExternalID: d.ExternalID,
			}
		} else {
			d.Expense = &domain.ExpenseEntry{
				Date:          date,
				Category:      domain.CategoryVariable,
				SubCategory:   "Other",
				Amount:        amount.Neg(),
				PaymentMethod: paymentMethod(tx, creditCard),
				Note:          label,
				ExternalID:    d.ExternalID,
			}
		}
		st.Drafts = append(st.Drafts, d)
	}
}

// externalID names a statement line across imports. FITIDs are only unique
// within one account, so the account id is part of the key.
func externalID(acctID, fitID string, date domain.Date, amount decimal.Decimal, label string) string {
	if fitID != "" {
		return "ofx:" + acctID + ":" + fitID
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s:%s", date, amount.StringFixed(2), label, acctID)))
	return fmt.Sprintf("ofx:%x", sum)
}

// payee prefers PAYEE, then NAME, then MEMO.
func payee(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		return name
	}
	return strings.TrimSpace(string(tx.Memo))
}

func paymentMethod(tx ofxgo.Transaction, creditCard bool) string {
	t := tx.TrnType
	if creditCard {
		return "Credit Card"
	}
	switch t {
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return "Cash"
	case ofxgo.TrnTypeCheck:
		return "Cheque"
	case ofxgo.TrnTypePOS, ofxgo.TrnTypeDebit:
		return "Debit Card"
	case ofxgo.TrnTypeXfer:
		return "Bank Transfer"
	case ofxgo.TrnTypeDirectDebit, ofxgo.TrnTypeRepeatPmt:
		return "Auto Debit"
	}
	return t.String()
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
