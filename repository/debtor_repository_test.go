package repository

import (
	"context"
	"testing"

	"notoc/models"
	"notoc/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebtorRepository_ListWithAliases(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	userRepo := NewUserRepository(testDB.DB)
	repo := NewDebtorRepository(testDB.DB)

	user, err := userRepo.Create(ctx, 111, "Test User")
	require.NoError(t, err)
	other, err := userRepo.Create(ctx, 222, "Other User")
	require.NoError(t, err)

	tuan, err := repo.Create(ctx, user.ID, "Tuấn")
	require.NoError(t, err)
	lan, err := repo.Create(ctx, user.ID, "Lan")
	require.NoError(t, err)

	// Another user's contact set must never leak in.
	_, err = repo.Create(ctx, other.ID, "Tuấn")
	require.NoError(t, err)

	_, err = repo.CreateAlias(ctx, tuan.ID, "Béo")
	require.NoError(t, err)
	_, err = repo.CreateAlias(ctx, tuan.ID, "Anh Tuấn")
	require.NoError(t, err)

	debtors, err := repo.ListWithAliases(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, debtors, 2)

	// Creation order is preserved.
	assert.Equal(t, tuan.ID, debtors[0].ID)
	assert.Equal(t, lan.ID, debtors[1].ID)

	require.Len(t, debtors[0].Aliases, 2)
	names := []string{debtors[0].Aliases[0].Name, debtors[0].Aliases[1].Name}
	assert.ElementsMatch(t, []string{"Béo", "Anh Tuấn"}, names)
	assert.Empty(t, debtors[1].Aliases)
}

func TestDebtorRepository_Delete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewDebtorRepository(testDB.DB)
	txRepo := NewTransactionRepository(testDB.DB)

	user, err := NewUserRepository(testDB.DB).Create(ctx, 333, "Test User")
	require.NoError(t, err)
	debtor, err := repo.Create(ctx, user.ID, "Tuấn")
	require.NoError(t, err)

	_, err = repo.CreateAlias(ctx, debtor.ID, "Béo")
	require.NoError(t, err)
	seeded := testutil.CreateTestTransaction(debtor.ID, models.TransactionTypeDebt, 1000)
	require.NoError(t, txRepo.Create(ctx, seeded))

	err = repo.Delete(ctx, debtor.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, debtor.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Transactions cascade with the debtor.
	tx, err := txRepo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestDebtorRepository_Delete_Missing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDebtorRepository(testDB.DB)
	err := repo.Delete(context.Background(), 999999)
	assert.Error(t, err)
}
