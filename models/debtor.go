package models

import (
	"time"
)

// Debtor represents a person a user tracks debts with. The owning user is
// immutable after creation; ownership is re-verified before any mutation.
type Debtor struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`

	// Aliases is populated by queries that join the aliases table.
	Aliases []*Alias `db:"-"`
}

// Alias is a secondary name bound to one debtor. Alias names are unique
// within the owning user's namespace after case and diacritic folding.
type Alias struct {
	ID       int64  `db:"id"`
	DebtorID int64  `db:"debtor_id"`
	Name     string `db:"alias_name"`
}
