package models

import (
	"github.com/shopspring/decimal"
)

// DebtorBalance is one row of a user's debt summary: a debtor together with
// their net balance (DEBT total minus CREDIT total).
type DebtorBalance struct {
	DebtorID   int64           `db:"debtor_id"`
	DebtorName string          `db:"debtor_name"`
	Balance    decimal.Decimal `db:"balance"`
}
