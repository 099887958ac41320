package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyOwnerName    = errors.New("owner name cannot be empty")
)

// Account represents a wallet account. The balance is mutated only while an
// exclusive row lock on the account is held.
type Account struct {
	ID        uuid.UUID `json:"id"`
	OwnerName string    `json:"owner_name"`
	Balance   int64     `json:"balance"` // Stored in cents/minor units
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates a new account with the given owner and opening balance
func NewAccount(ownerName string, initialBalance int64) (*Account, error) {
	if ownerName == "" {
		return nil, ErrEmptyOwnerName
	}
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	return &Account{
		ID:        uuid.New(),
		OwnerName: ownerName,
		Balance:   initialBalance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Credit adds the specified amount to the account balance. Credits have no
// balance ceiling.
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	return nil
}

// Debit subtracts the specified amount from the account balance. The caller
// must hold the account row lock so the funds check cannot race a concurrent
// debit.
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if a.Balance < amount {
		return ErrInsufficientFunds
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now()
	return nil
}
