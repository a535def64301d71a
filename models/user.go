package models

import (
	"time"
)

// User represents a Telegram account owner who records debts (the creditor).
// Debtors, aliases and transactions never cross user boundaries.
type User struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	FullName   string    `db:"full_name"`
	CreatedAt  time.Time `db:"created_at"`
}
