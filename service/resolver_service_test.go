package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notoc/models"
)

func defaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		HighThreshold:     90,
		DisambigThreshold: 60,
		MaxCandidates:     5,
	}
}

// resolverFixture wires a resolver service over a canned contact set.
func resolverFixture(t *testing.T, debtors []*models.Debtor, scorer Scorer) ResolverService {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDebtorRepo := new(MockDebtorRepository)
	mockUoW.SetRepositories(nil, mockDebtorRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockDebtorRepo.On("ListWithAliases", context.Background(), int64(1)).Return(debtors, nil)

	if scorer == nil {
		scorer = NewFuzzScorer()
	}
	return NewResolverService(mockFactory, scorer, defaultResolverConfig())
}

func TestResolverService_Resolve_ExactNameIgnoresDiacritics(t *testing.T) {
	ctx := context.Background()

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Tuấn"},
		{ID: 2, UserID: 1, Name: "Lan"},
	}
	service := resolverFixture(t, debtors, nil)

	res, err := service.Resolve(ctx, 1, "Tuan")

	require.NoError(t, err)
	require.True(t, res.Resolved())
	assert.Equal(t, int64(1), res.Debtor.ID)
	assert.Equal(t, models.MatchKindName, res.Match)
}

func TestResolverService_Resolve_AliasBeatsName(t *testing.T) {
	ctx := context.Background()

	// Alias lookup runs before name lookup across the whole contact set.
	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Nguyễn Văn Tuấn"},
		{ID: 2, UserID: 1, Name: "Trần Minh", Aliases: []*models.Alias{
			{ID: 10, DebtorID: 2, Name: "Béo"},
		}},
	}
	service := resolverFixture(t, debtors, nil)

	res, err := service.Resolve(ctx, 1, "beo")

	require.NoError(t, err)
	require.True(t, res.Resolved())
	assert.Equal(t, int64(2), res.Debtor.ID)
	assert.Equal(t, models.MatchKindAlias, res.Match)
}

func TestResolverService_Resolve_UniqueHighFuzzy(t *testing.T) {
	ctx := context.Background()

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Nguyễn Văn Tuấn"},
		{ID: 2, UserID: 1, Name: "Phạm Hoa"},
	}
	service := resolverFixture(t, debtors, nil)

	// Partial match inside the full name scores 100 via partial ratio.
	res, err := service.Resolve(ctx, 1, "Tuấn")

	require.NoError(t, err)
	require.True(t, res.Resolved())
	assert.Equal(t, int64(1), res.Debtor.ID)
	assert.Equal(t, models.MatchKindFuzzy, res.Match)
}

func TestResolverService_Resolve_AmbiguousOffersCandidates(t *testing.T) {
	ctx := context.Background()

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Khánh Duy"},
		{ID: 2, UserID: 1, Name: "Duy Anh"},
		{ID: 3, UserID: 1, Name: "Hoa"},
	}
	service := resolverFixture(t, debtors, nil)

	res, err := service.Resolve(ctx, 1, "Duy")

	require.NoError(t, err)
	assert.False(t, res.Resolved())
	require.True(t, res.Ambiguous())
	ids := make([]int64, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		ids = append(ids, c.Debtor.ID)
		assert.GreaterOrEqual(t, c.Score, 60)
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestResolverService_Resolve_NotFound(t *testing.T) {
	ctx := context.Background()

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Tuấn"},
	}
	service := resolverFixture(t, debtors, nil)

	res, err := service.Resolve(ctx, 1, "Xyzw")

	require.NoError(t, err)
	assert.True(t, res.NotFound())
}

func TestResolverService_Resolve_EmptyContactSet(t *testing.T) {
	ctx := context.Background()

	service := resolverFixture(t, []*models.Debtor{}, nil)

	res, err := service.Resolve(ctx, 1, "Tuấn")

	require.NoError(t, err)
	assert.True(t, res.NotFound())
}

func TestResolverService_Resolve_CandidateCap(t *testing.T) {
	ctx := context.Background()

	// A scorer that rates everything identically forces the ambiguous path
	// and exercises the candidate cap.
	debtors := make([]*models.Debtor, 0, 8)
	for i := int64(1); i <= 8; i++ {
		debtors = append(debtors, &models.Debtor{ID: i, UserID: 1, Name: "X"})
	}
	service := resolverFixture(t, debtors, constantScorer(75))

	res, err := service.Resolve(ctx, 1, "Duy")

	require.NoError(t, err)
	require.True(t, res.Ambiguous())
	assert.Len(t, res.Candidates, 5)
	// Equal scores keep contact-set order.
	assert.Equal(t, int64(1), res.Candidates[0].Debtor.ID)
}

type constantScorer int

func (s constantScorer) Score(query, candidate string) int { return int(s) }

func TestResolverService_AddAlias(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDebtorRepo := new(MockDebtorRepository)
	mockUoW.SetRepositories(nil, mockDebtorRepo, nil)

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Tuấn"},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockDebtorRepo.On("ListWithAliases", ctx, int64(1)).Return(debtors, nil)
	mockDebtorRepo.On("CreateAlias", ctx, int64(1), "Béo").
		Return(&models.Alias{ID: 5, DebtorID: 1, Name: "Béo"}, nil)

	service := NewResolverService(mockFactory, NewFuzzScorer(), defaultResolverConfig())

	// Debtor lookup by name folds diacritics too.
	debtor, err := service.AddAlias(ctx, 1, "Béo", "tuan")

	require.NoError(t, err)
	assert.Equal(t, int64(1), debtor.ID)
	mockDebtorRepo.AssertExpectations(t)
}

func TestResolverService_AddAlias_Taken(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDebtorRepo := new(MockDebtorRepository)
	mockUoW.SetRepositories(nil, mockDebtorRepo, nil)

	debtors := []*models.Debtor{
		{ID: 1, UserID: 1, Name: "Tuấn"},
		{ID: 2, UserID: 1, Name: "Minh", Aliases: []*models.Alias{
			{ID: 9, DebtorID: 2, Name: "Béo"},
		}},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockDebtorRepo.On("ListWithAliases", ctx, int64(1)).Return(debtors, nil)

	service := NewResolverService(mockFactory, NewFuzzScorer(), defaultResolverConfig())

	_, err := service.AddAlias(ctx, 1, "beo", "Tuấn")

	assert.ErrorIs(t, err, ErrAliasTaken)
	mockDebtorRepo.AssertNotCalled(t, "CreateAlias")
}

func TestResolverService_AddAlias_DebtorMissing(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockDebtorRepo := new(MockDebtorRepository)
	mockUoW.SetRepositories(nil, mockDebtorRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockDebtorRepo.On("ListWithAliases", ctx, int64(1)).Return([]*models.Debtor{}, nil)

	service := NewResolverService(mockFactory, NewFuzzScorer(), defaultResolverConfig())

	_, err := service.AddAlias(ctx, 1, "Béo", "Tuấn")

	assert.ErrorIs(t, err, ErrNotFound)
}
