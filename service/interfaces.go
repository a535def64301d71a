package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"notoc/events"
	"notoc/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByTelegramID retrieves a user by their Telegram ID, nil when absent
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)

	// Create creates a new user
	Create(ctx context.Context, telegramID int64, fullName string) (*models.User, error)
}

// DebtorRepository defines the interface for debtor and alias data access
type DebtorRepository interface {
	// GetByID retrieves a debtor by ID, nil when absent
	GetByID(ctx context.Context, id int64) (*models.Debtor, error)

	// Create creates a new debtor owned by the given user
	Create(ctx context.Context, userID int64, name string) (*models.Debtor, error)

	// ListWithAliases returns all of a user's debtors with aliases attached,
	// ordered by creation time
	ListWithAliases(ctx context.Context, userID int64) ([]*models.Debtor, error)

	// Delete removes a debtor; transactions and aliases cascade
	Delete(ctx context.Context, id int64) error

	// CreateAlias binds a new alias name to a debtor
	CreateAlias(ctx context.Context, debtorID int64, name string) (*models.Alias, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	// Create inserts a transaction and fills in its ID and creation time
	Create(ctx context.Context, transaction *models.Transaction) error

	// GetByID retrieves a transaction by ID, nil when absent
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)

	// GetBalance computes sum(DEBT) - sum(CREDIT) for a debtor
	GetBalance(ctx context.Context, debtorID int64) (decimal.Decimal, error)

	// GetHistory returns a debtor's transactions, most recent first
	GetHistory(ctx context.Context, debtorID int64, limit int) ([]*models.Transaction, error)

	// GetBalancesByUser returns per-debtor non-zero balances, largest first
	GetBalancesByUser(ctx context.Context, userID int64) ([]*models.DebtorBalance, error)

	// Delete removes a single transaction
	Delete(ctx context.Context, id int64) error

	// DeleteByDebtor removes all of a debtor's transactions, returning the count
	DeleteByDebtor(ctx context.Context, debtorID int64) (int64, error)

	// SetDueDate updates a transaction's due date (nil clears it)
	SetDueDate(ctx context.Context, id int64, dueDate *time.Time) error

	// ListUpcoming returns a user's transactions that carry a due date,
	// soonest first, optionally only those due before the given cutoff
	ListUpcoming(ctx context.Context, userID int64, limit int, until *time.Time) ([]*models.Transaction, error)
}

// EventPublisher publishes events tied to the enclosing unit of work
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to all repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	DebtorRepository() DebtorRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UserService defines the interface for caller identity operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or registers a new one
	GetOrCreateUser(ctx context.Context, telegramID int64, fullName string) (*models.User, error)
}

// Scorer computes a 0-100 similarity between a typed fragment and a known
// name. The concrete metric is an implementation choice of the resolver.
type Scorer interface {
	Score(query, candidate string) int
}

// ResolverService maps free-text name fragments to debtors
type ResolverService interface {
	// Resolve maps a fragment to a single debtor, a ranked candidate list, or
	// a not-found outcome, scoped to the user's own debtors and aliases
	Resolve(ctx context.Context, userID int64, fragment string) (*models.Resolution, error)

	// AddAlias binds a nickname to an existing debtor found by name. The
	// alias must be unused within the user's namespace
	AddAlias(ctx context.Context, userID int64, aliasName, debtorName string) (*models.Debtor, error)
}

// LedgerService defines the append-only transaction ledger. All mutating
// operations verify that the acting user owns the affected records before
// touching them.
type LedgerService interface {
	// Record appends a transaction for an existing debtor
	Record(ctx context.Context, userID, debtorID int64, txType models.TransactionType, amount decimal.Decimal, note *string, dueDate *time.Time) (*models.RecordResult, error)

	// RecordNew creates a debtor and appends their first transaction in one
	// atomic step
	RecordNew(ctx context.Context, userID int64, debtorName string, txType models.TransactionType, amount decimal.Decimal, note *string, dueDate *time.Time) (*models.RecordResult, error)

	// Balance recomputes a debtor's net balance from the transaction log
	Balance(ctx context.Context, userID, debtorID int64) (decimal.Decimal, error)

	// History returns a debtor's transactions, most recent first
	History(ctx context.Context, userID, debtorID int64, limit int) ([]*models.Transaction, error)

	// Summary returns all of the user's non-zero debtor balances
	Summary(ctx context.Context, userID int64) ([]*models.DebtorBalance, error)

	// DeleteTransaction removes one transaction after verifying ownership
	DeleteTransaction(ctx context.Context, userID, transactionID int64) error

	// DeleteDebtor removes a debtor and their whole history after verifying
	// ownership
	DeleteDebtor(ctx context.Context, userID, debtorID int64) error
}

// DeadlineService manages due dates on transactions
type DeadlineService interface {
	// SetDueDate updates a transaction's due date with ownership verification
	SetDueDate(ctx context.Context, userID, transactionID int64, dueDate *time.Time) (*models.Transaction, error)

	// ListUpcoming returns the user's dated transactions, soonest first
	ListUpcoming(ctx context.Context, userID int64, limit int, withinDays *int) ([]*models.Transaction, error)
}
