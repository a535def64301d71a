package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"notoc/events"
	"notoc/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, telegramID int64, fullName string) (*models.User, error) {
	args := m.Called(ctx, telegramID, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDebtorRepository is a mock implementation of DebtorRepository
type MockDebtorRepository struct {
	mock.Mock
}

func (m *MockDebtorRepository) GetByID(ctx context.Context, id int64) (*models.Debtor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debtor), args.Error(1)
}

func (m *MockDebtorRepository) Create(ctx context.Context, userID int64, name string) (*models.Debtor, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Debtor), args.Error(1)
}

func (m *MockDebtorRepository) ListWithAliases(ctx context.Context, userID int64) ([]*models.Debtor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Debtor), args.Error(1)
}

func (m *MockDebtorRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebtorRepository) CreateAlias(ctx context.Context, debtorID int64, name string) (*models.Alias, error) {
	args := m.Called(ctx, debtorID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alias), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetBalance(ctx context.Context, debtorID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, debtorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) GetHistory(ctx context.Context, debtorID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, debtorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetBalancesByUser(ctx context.Context, userID int64) ([]*models.DebtorBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DebtorBalance), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteByDebtor(ctx context.Context, debtorID int64) (int64, error) {
	args := m.Called(ctx, debtorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SetDueDate(ctx context.Context, id int64, dueDate *time.Time) error {
	args := m.Called(ctx, id, dueDate)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListUpcoming(ctx context.Context, userID int64, limit int, until *time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher swallows events for tests that don't assert on them.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo        UserRepository
	debtorRepo      DebtorRepository
	transactionRepo TransactionRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the accessor methods.
func (m *MockUnitOfWork) SetRepositories(user UserRepository, debtor DebtorRepository, transaction TransactionRepository) {
	m.userRepo = user
	m.debtorRepo = debtor
	m.transactionRepo = transaction
}

// SetEventBus overrides the publisher returned by EventBus.
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) DebtorRepository() DebtorRepository {
	return m.debtorRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return NoopEventPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
