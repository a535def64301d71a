package repository

import (
	"context"
	"testing"
	"time"

	"notoc/models"
	"notoc/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDebtor creates a user with one debtor and returns the debtor.
func seedDebtor(t *testing.T, db *testutil.TestDatabase, telegramID int64, name string) *models.Debtor {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserRepository(db.DB).Create(ctx, telegramID, "Test User")
	require.NoError(t, err)

	debtor, err := NewDebtorRepository(db.DB).Create(ctx, user.ID, name)
	require.NoError(t, err)
	return debtor
}

func TestTransactionRepository_GetBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()
	debtor := seedDebtor(t, testDB, 111, "Tuấn")

	t.Run("empty ledger is zero", func(t *testing.T) {
		balance, err := repo.GetBalance(ctx, debtor.ID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("debts add and credits subtract", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 50000))
		require.NoError(t, err)
		err = repo.Create(ctx, testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeCredit, 20000))
		require.NoError(t, err)

		balance, err := repo.GetBalance(ctx, debtor.ID)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(30000)), "balance = %s", balance)
	})
}

func TestTransactionRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()
	debtor := seedDebtor(t, testDB, 222, "Lan")

	tx := testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 50000)
	tx.Note = testutil.StringPtr("tiền cơm")
	tx.DueDate = testutil.TimePtr(time.Date(2030, 12, 25, 0, 0, 0, 0, time.UTC))

	err := repo.Create(ctx, tx)
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, got.Note)
	assert.Equal(t, "tiền cơm", *got.Note)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, 25, got.DueDate.Day())
}

func TestTransactionRepository_GetHistory(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()
	debtor := seedDebtor(t, testDB, 333, "Hùng")

	for i := int64(1); i <= 5; i++ {
		err := repo.Create(ctx, testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, i*1000))
		require.NoError(t, err)
	}

	history, err := repo.GetHistory(ctx, debtor.ID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Most recent first; same-timestamp rows fall back to id order.
	assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, history[1].Amount.Equal(decimal.NewFromInt(4000)))
	assert.True(t, history[2].Amount.Equal(decimal.NewFromInt(3000)))
}

func TestTransactionRepository_GetBalancesByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	userRepo := NewUserRepository(testDB.DB)
	debtorRepo := NewDebtorRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)

	user, err := userRepo.Create(ctx, 444, "Test User")
	require.NoError(t, err)

	tuan, err := debtorRepo.Create(ctx, user.ID, "Tuấn")
	require.NoError(t, err)
	lan, err := debtorRepo.Create(ctx, user.ID, "Lan")
	require.NoError(t, err)
	settled, err := debtorRepo.Create(ctx, user.ID, "Hùng")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(tuan.ID, models.TransactionTypeDebt, 30000)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(lan.ID, models.TransactionTypeDebt, 10000)))
	// Fully repaid debtor drops out of the summary.
	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(settled.ID, models.TransactionTypeDebt, 5000)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(settled.ID, models.TransactionTypeCredit, 5000)))

	balances, err := repo.GetBalancesByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "Tuấn", balances[0].DebtorName)
	assert.True(t, balances[0].Balance.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, "Lan", balances[1].DebtorName)
	assert.True(t, balances[1].Balance.Equal(decimal.NewFromInt(10000)))
}

func TestTransactionRepository_DeleteByDebtor(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()
	debtor := seedDebtor(t, testDB, 555, "Tuấn")

	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 1000)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 2000)))

	count, err := repo.DeleteByDebtor(ctx, debtor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	balance, err := repo.GetBalance(ctx, debtor.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestTransactionRepository_ListUpcoming(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()
	debtor := seedDebtor(t, testDB, 666, "Tuấn")

	soon := testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 1000)
	soon.DueDate = testutil.TimePtr(time.Now().AddDate(0, 0, 2))
	later := testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 2000)
	later.DueDate = testutil.TimePtr(time.Now().AddDate(0, 0, 30))
	undated := testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 3000)

	require.NoError(t, repo.Create(ctx, soon))
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, undated))

	// Owner of the test debtor is the user seeded by seedDebtor.
	user, err := NewUserRepository(testDB.DB).GetByTelegramID(ctx, 666)
	require.NoError(t, err)

	all, err := repo.ListUpcoming(ctx, user.ID, 10, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, soon.ID, all[0].ID)
	assert.Equal(t, later.ID, all[1].ID)

	cutoff := time.Now().AddDate(0, 0, 7)
	within, err := repo.ListUpcoming(ctx, user.ID, 10, &cutoff)
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, soon.ID, within[0].ID)
}
