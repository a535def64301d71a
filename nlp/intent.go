package nlp

import (
	"github.com/shopspring/decimal"
)

// Intent is the closed set of outcomes the parser can produce. Every input
// text maps to exactly one variant; unmatched text yields Unrecognized, never
// an error.
type Intent interface {
	isIntent()
}

// DebtIntent records that a named person now owes more money.
type DebtIntent struct {
	Name   string
	Amount decimal.Decimal
	Note   *string
}

// CreditIntent records a repayment by a named person.
type CreditIntent struct {
	Name   string
	Amount decimal.Decimal
	Note   *string
}

// BalanceQueryIntent asks for one person's current balance.
type BalanceQueryIntent struct {
	Name string
}

// HistoryQueryIntent asks for one person's recent transactions.
type HistoryQueryIntent struct {
	Name string
}

// SummaryQueryIntent asks for all non-zero balances.
type SummaryQueryIntent struct{}

// Unrecognized is the soft fallback for text matching no known pattern.
type Unrecognized struct{}

func (DebtIntent) isIntent()         {}
func (CreditIntent) isIntent()       {}
func (BalanceQueryIntent) isIntent() {}
func (HistoryQueryIntent) isIntent() {}
func (SummaryQueryIntent) isIntent() {}
func (Unrecognized) isIntent()       {}
