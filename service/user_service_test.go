package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"notoc/models"
)

func TestUserService_GetOrCreateUser_Existing(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	service := NewUserService(mockFactory)

	existingUser := &models.User{
		ID:         1,
		TelegramID: 123456,
		FullName:   "Nguyễn Văn A",
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByTelegramID", ctx, int64(123456)).Return(existingUser, nil)

	user, err := service.GetOrCreateUser(ctx, 123456, "Nguyễn Văn A")

	assert.NoError(t, err)
	assert.Equal(t, existingUser, user)

	// Create must not be called for an existing user
	mockUserRepo.AssertNotCalled(t, "Create")
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreateUser_New(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	service := NewUserService(mockFactory)

	createdUser := &models.User{
		ID:         7,
		TelegramID: 123456,
		FullName:   "Nguyễn Văn A",
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByTelegramID", ctx, int64(123456)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(123456), "Nguyễn Văn A").Return(createdUser, nil)

	user, err := service.GetOrCreateUser(ctx, 123456, "Nguyễn Văn A")

	assert.NoError(t, err)
	assert.Equal(t, createdUser, user)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreateUser_LookupError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	service := NewUserService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByTelegramID", ctx, int64(123456)).Return(nil, errors.New("connection lost"))

	user, err := service.GetOrCreateUser(ctx, 123456, "Nguyễn Văn A")

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "connection lost")

	mockUoW.AssertNotCalled(t, "Commit")
}
