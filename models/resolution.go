package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchKind records which rule produced a resolved debtor.
type MatchKind string

const (
	MatchKindAlias MatchKind = "alias"
	MatchKindName  MatchKind = "name"
	MatchKindFuzzy MatchKind = "fuzzy"
)

// Candidate is one fuzzy-match candidate offered for disambiguation, with its
// similarity score in the range 0-100.
type Candidate struct {
	Debtor *Debtor
	Score  int
}

// Resolution is the outcome of resolving a name fragment against a user's
// debtors and aliases. Exactly one of the three shapes holds:
//   - Debtor != nil: resolved to a single debtor (Match says how)
//   - len(Candidates) > 0: ambiguous, ranked candidates need a user choice
//   - both empty: no match, the caller may offer to create a new debtor
type Resolution struct {
	Debtor     *Debtor
	Match      MatchKind
	Candidates []Candidate
}

// Resolved reports whether a single debtor was found.
func (r *Resolution) Resolved() bool { return r.Debtor != nil }

// Ambiguous reports whether the resolution needs a disambiguating choice.
func (r *Resolution) Ambiguous() bool { return r.Debtor == nil && len(r.Candidates) > 0 }

// NotFound reports whether nothing cleared the disambiguation threshold.
func (r *Resolution) NotFound() bool { return r.Debtor == nil && len(r.Candidates) == 0 }

// PendingTransaction holds an in-flight debt/credit message that is waiting
// for the user to pick among ambiguous candidates. One slot exists per user:
// a newer pending transaction unconditionally replaces an older one, and a
// consumed slot cannot be replayed (the Token guards both).
type PendingTransaction struct {
	Token      string
	UserID     int64
	NameQuery  string
	Amount     decimal.Decimal
	Type       TransactionType
	Note       *string
	DueDate    *time.Time
	Candidates []Candidate
	CreatedAt  time.Time
}
