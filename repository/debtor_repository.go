package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"notoc/database"
	"notoc/models"
)

// DebtorRepository implements the service.DebtorRepository interface
type DebtorRepository struct {
	q queryable
}

// NewDebtorRepository creates a new debtor repository
func NewDebtorRepository(db *database.DB) *DebtorRepository {
	return &DebtorRepository{q: db.Pool}
}

// newDebtorRepositoryWithTx creates a new debtor repository bound to a transaction
func newDebtorRepositoryWithTx(tx queryable) *DebtorRepository {
	return &DebtorRepository{q: tx}
}

// GetByID retrieves a debtor by ID
func (r *DebtorRepository) GetByID(ctx context.Context, id int64) (*models.Debtor, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM debtors
		WHERE id = $1
	`

	var debtor models.Debtor
	err := r.q.QueryRow(ctx, query, id).Scan(
		&debtor.ID,
		&debtor.UserID,
		&debtor.Name,
		&debtor.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor %d: %w", id, err)
	}

	return &debtor, nil
}

// Create creates a new debtor owned by the given user
func (r *DebtorRepository) Create(ctx context.Context, userID int64, name string) (*models.Debtor, error) {
	query := `
		INSERT INTO debtors (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at
	`

	var debtor models.Debtor
	err := r.q.QueryRow(ctx, query, userID, name).Scan(
		&debtor.ID,
		&debtor.UserID,
		&debtor.Name,
		&debtor.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create debtor %q for user %d: %w", name, userID, err)
	}

	return &debtor, nil
}

// ListWithAliases returns all of a user's debtors, oldest first, with their
// aliases attached. Name matching happens in the resolver, which needs the
// full contact set anyway for fuzzy scoring.
func (r *DebtorRepository) ListWithAliases(ctx context.Context, userID int64) ([]*models.Debtor, error) {
	query := `
		SELECT d.id, d.user_id, d.name, d.created_at, a.id, a.debtor_id, a.alias_name
		FROM debtors d
		LEFT JOIN aliases a ON a.debtor_id = d.id
		WHERE d.user_id = $1
		ORDER BY d.created_at, d.id, a.id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors for user %d: %w", userID, err)
	}
	defer rows.Close()

	var debtors []*models.Debtor
	byID := make(map[int64]*models.Debtor)
	for rows.Next() {
		var debtor models.Debtor
		var aliasID, aliasDebtorID *int64
		var aliasName *string
		err := rows.Scan(
			&debtor.ID,
			&debtor.UserID,
			&debtor.Name,
			&debtor.CreatedAt,
			&aliasID,
			&aliasDebtorID,
			&aliasName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debtor: %w", err)
		}

		existing, ok := byID[debtor.ID]
		if !ok {
			existing = &debtor
			byID[debtor.ID] = existing
			debtors = append(debtors, existing)
		}
		if aliasID != nil {
			existing.Aliases = append(existing.Aliases, &models.Alias{
				ID:       *aliasID,
				DebtorID: *aliasDebtorID,
				Name:     *aliasName,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debtors: %w", err)
	}

	return debtors, nil
}

// Delete removes a debtor; aliases and transactions cascade at the schema level
func (r *DebtorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM debtors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debtor %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("debtor %d not found", id)
	}
	return nil
}

// CreateAlias binds a new alias name to a debtor
func (r *DebtorRepository) CreateAlias(ctx context.Context, debtorID int64, name string) (*models.Alias, error) {
	query := `
		INSERT INTO aliases (debtor_id, alias_name)
		VALUES ($1, $2)
		RETURNING id, debtor_id, alias_name
	`

	var alias models.Alias
	err := r.q.QueryRow(ctx, query, debtorID, name).Scan(
		&alias.ID,
		&alias.DebtorID,
		&alias.Name,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create alias %q for debtor %d: %w", name, debtorID, err)
	}

	return &alias, nil
}
