package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"notoc/models"
)

// CreateTestTransaction builds an unsaved transaction with sensible defaults.
func CreateTestTransaction(debtorID int64, txType models.TransactionType, amount int64) *models.Transaction {
	return &models.Transaction{
		DebtorID: debtorID,
		Type:     txType,
		Amount:   decimal.NewFromInt(amount),
	}
}

// StringPtr returns a pointer to s, for optional note fields.
func StringPtr(s string) *string { return &s }

// TimePtr returns a pointer to t, for optional due dates.
func TimePtr(t time.Time) *time.Time { return &t }
