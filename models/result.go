package models

import (
	"github.com/shopspring/decimal"
)

// RecordResult is returned after a ledger entry is committed.
type RecordResult struct {
	Transaction *Transaction
	Debtor      *Debtor
	NewBalance  decimal.Decimal
	// DebtorCreated is true when the entry's debtor was created in the same
	// atomic step.
	DebtorCreated bool
}
