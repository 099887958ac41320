package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewallet-settlement/internal/domain/account"
)

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*account.Account")).Return(nil).Once()

		acc, err := svc.CreateAccount(ctx, "Test User", 10000)
		require.NoError(t, err)
		assert.Equal(t, "Test User", acc.OwnerName)
		assert.Equal(t, int64(10000), acc.Balance)
		assert.NotEqual(t, uuid.Nil, acc.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidAccountData", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		_, err := svc.CreateAccount(ctx, "", 10000)
		assert.ErrorIs(t, err, account.ErrEmptyOwnerName)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountService_GetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		accountID := uuid.New()
		acc := &account.Account{ID: accountID, OwnerName: "Test User", Balance: 500}
		mockRepo.On("GetByID", ctx, accountID).Return(acc, nil).Once()

		got, err := svc.GetAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, acc, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		svc := NewAccountService(mockRepo)

		accountID := uuid.New()
		mockRepo.On("GetByID", ctx, accountID).
			Return(nil, account.ErrAccountNotFound{AccountID: accountID}).Once()

		got, err := svc.GetAccount(ctx, accountID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}
