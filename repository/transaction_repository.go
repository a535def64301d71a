package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"notoc/database"
	"notoc/models"
)

// TransactionRepository implements the service.TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create inserts a transaction and fills in its generated ID and creation time
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (debtor_id, amount, type, note, group_id, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.DebtorID,
		transaction.Amount,
		transaction.Type,
		transaction.Note,
		transaction.GroupID,
		transaction.DueDate,
	).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction for debtor %d: %w", transaction.DebtorID, err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `
		SELECT id, debtor_id, amount, type, note, group_id, due_date, created_at
		FROM transactions
		WHERE id = $1
	`

	transaction, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}

	return transaction, nil
}

// GetBalance computes sum(DEBT) - sum(CREDIT) over the debtor's full log.
// The balance is never stored; this is the single source of truth.
func (r *TransactionRepository) GetBalance(ctx context.Context, debtorID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'DEBT' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE debtor_id = $1
	`

	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, debtorID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for debtor %d: %w", debtorID, err)
	}

	return balance, nil
}

// GetHistory returns a debtor's transactions, most recent first
func (r *TransactionRepository) GetHistory(ctx context.Context, debtorID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, debtor_id, amount, type, note, group_id, due_date, created_at
		FROM transactions
		WHERE debtor_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, debtorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for debtor %d: %w", debtorID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// GetBalancesByUser returns the user's debtors with non-zero balances,
// largest balance first
func (r *TransactionRepository) GetBalancesByUser(ctx context.Context, userID int64) ([]*models.DebtorBalance, error) {
	query := `
		SELECT d.id, d.name,
		       SUM(CASE WHEN t.type = 'DEBT' THEN t.amount ELSE -t.amount END) AS balance
		FROM debtors d
		JOIN transactions t ON t.debtor_id = d.id
		WHERE d.user_id = $1
		GROUP BY d.id, d.name
		HAVING SUM(CASE WHEN t.type = 'DEBT' THEN t.amount ELSE -t.amount END) <> 0
		ORDER BY balance DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances for user %d: %w", userID, err)
	}
	defer rows.Close()

	var balances []*models.DebtorBalance
	for rows.Next() {
		var b models.DebtorBalance
		if err := rows.Scan(&b.DebtorID, &b.DebtorName, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// Delete removes a single transaction
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// DeleteByDebtor removes all of a debtor's transactions
func (r *TransactionRepository) DeleteByDebtor(ctx context.Context, debtorID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE debtor_id = $1`, debtorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for debtor %d: %w", debtorID, err)
	}
	return result.RowsAffected(), nil
}

// SetDueDate updates a transaction's due date; nil clears it
func (r *TransactionRepository) SetDueDate(ctx context.Context, id int64, dueDate *time.Time) error {
	result, err := r.q.Exec(ctx, `UPDATE transactions SET due_date = $1 WHERE id = $2`, dueDate, id)
	if err != nil {
		return fmt.Errorf("failed to set due date on transaction %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// ListUpcoming returns the user's dated transactions, soonest first
func (r *TransactionRepository) ListUpcoming(ctx context.Context, userID int64, limit int, until *time.Time) ([]*models.Transaction, error) {
	query := `
		SELECT t.id, t.debtor_id, t.amount, t.type, t.note, t.group_id, t.due_date, t.created_at
		FROM transactions t
		JOIN debtors d ON d.id = t.debtor_id
		WHERE d.user_id = $1
		  AND t.due_date IS NOT NULL
		  AND ($2::timestamptz IS NULL OR t.due_date <= $2)
		ORDER BY t.due_date, t.created_at
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, until, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming deadlines for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.DebtorID,
		&t.Amount,
		&t.Type,
		&t.Note,
		&t.GroupID,
		&t.DueDate,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
