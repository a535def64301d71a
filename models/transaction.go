package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags the direction of a transaction. The amount itself is
// always positive; direction is carried only by this tag.
type TransactionType string

const (
	// TransactionTypeDebt increases what the debtor owes.
	TransactionTypeDebt TransactionType = "DEBT"
	// TransactionTypeCredit decreases what the debtor owes.
	TransactionTypeCredit TransactionType = "CREDIT"
)

// Transaction is an immutable ledger entry for a debtor. Corrections are made
// by appending an offsetting entry or by an explicit ownership-checked delete,
// never by editing.
type Transaction struct {
	ID       int64           `db:"id"`
	DebtorID int64           `db:"debtor_id"`
	Amount   decimal.Decimal `db:"amount"`
	Type     TransactionType `db:"type"`
	Note     *string         `db:"note"`
	// GroupID reserves a slot for a future shared-scope identifier.
	GroupID   *int64     `db:"group_id"`
	DueDate   *time.Time `db:"due_date"`
	CreatedAt time.Time  `db:"created_at"`
}
