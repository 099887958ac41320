package account

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		acc, err := NewAccount("Test User", 10000)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, "Test User", acc.OwnerName)
		assert.Equal(t, int64(10000), acc.Balance)
		assert.False(t, acc.CreatedAt.IsZero())
	})

	t.Run("ZeroOpeningBalance", func(t *testing.T) {
		acc, err := NewAccount("Test User", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), acc.Balance)
	})

	t.Run("EmptyOwnerName", func(t *testing.T) {
		_, err := NewAccount("", 10000)
		assert.ErrorIs(t, err, ErrEmptyOwnerName)
	})

	t.Run("NegativeOpeningBalance", func(t *testing.T) {
		_, err := NewAccount("Test User", -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestAccount_Credit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Credit(500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), acc.Balance)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Credit(0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(1000), acc.Balance)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Credit(-500)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(1000), acc.Balance)
	})
}

func TestAccount_Debit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Debit(400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), acc.Balance)
	})

	t.Run("ExactBalance", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Debit(1000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), acc.Balance)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Debit(1001)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(1000), acc.Balance)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Debit(0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		acc, _ := NewAccount("Test User", 1000)
		err := acc.Debit(-100)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
