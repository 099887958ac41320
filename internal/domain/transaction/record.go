package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/domain/shared"
)

var (
	ErrInvalidAmount   = errors.New("transaction amount must be positive")
	ErrBalanceMismatch = errors.New("balance_after does not match balance_before and amount")
)

// Record is one immutable ledger entry. balance_before and balance_after
// capture the account balance around the mutation, so the full history of an
// account reconstructs its balance.
type Record struct {
	ID             uuid.UUID                `json:"id"`
	AccountID      uuid.UUID                `json:"account_id"`
	Type           shared.TransactionType   `json:"type"`
	Amount         int64                    `json:"amount"` // Stored in cents/minor units
	Remarks        string                   `json:"remarks,omitempty"`
	BalanceBefore  int64                    `json:"balance_before"`
	BalanceAfter   int64                    `json:"balance_after"`
	CounterpartyID *uuid.UUID               `json:"counterparty_id,omitempty"`
	Status         shared.TransactionStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
}

// NewRecord builds a ledger record and checks the balance invariant:
// balance_after = balance_before + amount for credits, - amount for debits.
func NewRecord(
	accountID uuid.UUID,
	kind shared.TransactionType,
	amount int64,
	remarks string,
	balanceBefore int64,
	counterpartyID *uuid.UUID,
) (*Record, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	balanceAfter := balanceBefore + amount
	if kind == shared.TransactionTypeDebit {
		balanceAfter = balanceBefore - amount
	}

	return &Record{
		ID:             uuid.New(),
		AccountID:      accountID,
		Type:           kind,
		Amount:         amount,
		Remarks:        remarks,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		CounterpartyID: counterpartyID,
		Status:         shared.TransactionStatusSuccess,
		CreatedAt:      time.Now(),
	}, nil
}

// Validate checks the balance invariant on an already-built record.
func (r *Record) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}

	want := r.BalanceBefore + r.Amount
	if r.Type == shared.TransactionTypeDebit {
		want = r.BalanceBefore - r.Amount
	}
	if r.BalanceAfter != want {
		return ErrBalanceMismatch
	}
	return nil
}
