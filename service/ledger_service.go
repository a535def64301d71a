package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"notoc/events"
	"notoc/models"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// Record appends a transaction against an existing debtor and returns the
// stored row together with the debtor's updated balance.
func (s *ledgerService) Record(ctx context.Context, userID, debtorID int64, txType models.TransactionType, amount decimal.Decimal, note *string, dueDate *time.Time) (*models.RecordResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	debtor, err := s.ownedDebtor(ctx, uow, userID, debtorID)
	if err != nil {
		return nil, err
	}

	result, err := s.record(ctx, uow, userID, debtor, txType, amount, note, dueDate)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return result, nil
}

// RecordNew creates a debtor under the user's contact set and records the
// first transaction against it in the same unit of work.
func (s *ledgerService) RecordNew(ctx context.Context, userID int64, debtorName string, txType models.TransactionType, amount decimal.Decimal, note *string, dueDate *time.Time) (*models.RecordResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	debtor, err := uow.DebtorRepository().Create(ctx, userID, debtorName)
	if err != nil {
		return nil, fmt.Errorf("failed to create debtor: %w", err)
	}

	uow.EventBus().Publish(events.DebtorCreatedEvent{
		UserID:   userID,
		DebtorID: debtor.ID,
		Name:     debtor.Name,
	})

	result, err := s.record(ctx, uow, userID, debtor, txType, amount, note, dueDate)
	if err != nil {
		return nil, err
	}
	result.DebtorCreated = true

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return result, nil
}

// record inserts the transaction and recomputes the balance inside an
// already-started unit of work. Ownership of the debtor must have been
// established by the caller.
func (s *ledgerService) record(ctx context.Context, uow UnitOfWork, userID int64, debtor *models.Debtor, txType models.TransactionType, amount decimal.Decimal, note *string, dueDate *time.Time) (*models.RecordResult, error) {
	tx := &models.Transaction{
		DebtorID: debtor.ID,
		Amount:   amount,
		Type:     txType,
		Note:     note,
		DueDate:  dueDate,
	}
	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	balance, err := uow.TransactionRepository().GetBalance(ctx, debtor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	uow.EventBus().Publish(events.TransactionRecordedEvent{
		UserID:          userID,
		DebtorID:        debtor.ID,
		DebtorName:      debtor.Name,
		TransactionID:   tx.ID,
		TransactionType: tx.Type,
		Amount:          tx.Amount,
		NewBalance:      balance,
	})

	log.WithFields(log.Fields{
		"userID":        userID,
		"debtorID":      debtor.ID,
		"transactionID": tx.ID,
		"type":          tx.Type,
		"amount":        tx.Amount,
	}).Info("Recorded transaction")

	return &models.RecordResult{
		Transaction: tx,
		Debtor:      debtor,
		NewBalance:  balance,
	}, nil
}

// Balance returns the net amount owed by one debtor.
func (s *ledgerService) Balance(ctx context.Context, userID, debtorID int64) (decimal.Decimal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.ownedDebtor(ctx, uow, userID, debtorID); err != nil {
		return decimal.Zero, err
	}

	balance, err := uow.TransactionRepository().GetBalance(ctx, debtorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return balance, nil
}

// History returns the debtor's most recent transactions, newest first.
func (s *ledgerService) History(ctx context.Context, userID, debtorID int64, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.ownedDebtor(ctx, uow, userID, debtorID); err != nil {
		return nil, err
	}

	history, err := uow.TransactionRepository().GetHistory(ctx, debtorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return history, nil
}

// Summary returns the non-zero balances of every debtor under the user.
func (s *ledgerService) Summary(ctx context.Context, userID int64) ([]*models.DebtorBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	balances, err := uow.TransactionRepository().GetBalancesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return balances, nil
}

// DeleteTransaction removes a single transaction after verifying the caller
// owns the debtor it belongs to.
func (s *ledgerService) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.TransactionRepository().GetByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
	}

	if _, err := s.ownedDebtor(ctx, uow, userID, tx.DebtorID); err != nil {
		return err
	}

	if err := uow.TransactionRepository().Delete(ctx, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	uow.EventBus().Publish(events.TransactionDeletedEvent{
		UserID:        userID,
		DebtorID:      tx.DebtorID,
		TransactionID: transactionID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":        userID,
		"transactionID": transactionID,
	}).Info("Deleted transaction")

	return nil
}

// DeleteDebtor removes a debtor together with its transactions and aliases.
func (s *ledgerService) DeleteDebtor(ctx context.Context, userID, debtorID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.ownedDebtor(ctx, uow, userID, debtorID); err != nil {
		return err
	}

	removed, err := uow.TransactionRepository().DeleteByDebtor(ctx, debtorID)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}

	if err := uow.DebtorRepository().Delete(ctx, debtorID); err != nil {
		return fmt.Errorf("failed to delete debtor: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"debtorID":     debtorID,
		"transactions": removed,
	}).Info("Deleted debtor")

	return nil
}

// ownedDebtor loads the debtor and verifies it belongs to the caller.
func (s *ledgerService) ownedDebtor(ctx context.Context, uow UnitOfWork, userID, debtorID int64) (*models.Debtor, error) {
	debtor, err := uow.DebtorRepository().GetByID(ctx, debtorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor: %w", err)
	}
	if debtor == nil {
		return nil, fmt.Errorf("debtor %d: %w", debtorID, ErrNotFound)
	}
	if debtor.UserID != userID {
		return nil, fmt.Errorf("debtor %d: %w", debtorID, ErrUnauthorized)
	}
	return debtor, nil
}
