package service

import (
	"context"
	"fmt"
	"time"

	"notoc/models"
)

// deadlineService implements the DeadlineService interface
type deadlineService struct {
	uowFactory UnitOfWorkFactory
}

// NewDeadlineService creates a new deadline service
func NewDeadlineService(uowFactory UnitOfWorkFactory) DeadlineService {
	return &deadlineService{
		uowFactory: uowFactory,
	}
}

// SetDueDate attaches or clears the due date on a transaction the caller
// owns and returns the updated row.
func (s *deadlineService) SetDueDate(ctx context.Context, userID, transactionID int64, dueDate *time.Time) (*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.TransactionRepository().GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
	}

	debtor, err := uow.DebtorRepository().GetByID(ctx, tx.DebtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor: %w", err)
	}
	if debtor == nil || debtor.UserID != userID {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrUnauthorized)
	}

	if err := uow.TransactionRepository().SetDueDate(ctx, transactionID, dueDate); err != nil {
		return nil, fmt.Errorf("failed to set due date: %w", err)
	}
	tx.DueDate = dueDate

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return tx, nil
}

// ListUpcoming returns the user's dated transactions ordered by due date.
// When withinDays is set only deadlines inside that window are returned.
func (s *deadlineService) ListUpcoming(ctx context.Context, userID int64, limit int, withinDays *int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	var until *time.Time
	if withinDays != nil {
		cutoff := time.Now().AddDate(0, 0, *withinDays)
		until = &cutoff
	}

	upcoming, err := uow.TransactionRepository().ListUpcoming(ctx, userID, limit, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming deadlines: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return upcoming, nil
}
