package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/account"
	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

// TxManager runs a function inside one database transaction
type TxManager interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Receipt is returned to the caller of a synchronous wallet operation. For a
// transfer it reflects only the sender side; the receiver credit settles
// asynchronously and is not observable here.
type Receipt struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Remarks       string    `json:"remarks,omitempty"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccountService manages account creation and lookups
type AccountService interface {
	CreateAccount(ctx context.Context, ownerName string, initialBalance int64) (*account.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// WalletService exposes the synchronous money operations
type WalletService interface {
	// TopUp credits the account's own balance
	TopUp(ctx context.Context, accountID uuid.UUID, amount int64) (*Receipt, error)

	// Pay debits the account's own balance with no counterparty
	Pay(ctx context.Context, accountID uuid.UUID, amount int64, remarks string) (*Receipt, error)

	// Transfer debits the sender and enqueues the receiver credit for the
	// settlement worker. The response carries the sender's view only.
	Transfer(ctx context.Context, fromAccount, toAccount uuid.UUID, amount int64, remarks string) (*Receipt, error)

	// History lists an account's ledger records, newest first
	History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Record, error)
}

// OperatorService exposes queue projections and recovery actions
type OperatorService interface {
	ListQueue(ctx context.Context, filter queue.Filter) ([]*queue.Intent, error)
	QueueStats(ctx context.Context) (*queue.Stats, error)
	ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Record, error)
	TransactionStats(ctx context.Context) (*transaction.Stats, error)

	// RetryTransfer resets a FAILED intent to PENDING with retry_count = 0.
	// Returns queue.ErrIntentNotFailed when the intent is missing or not
	// currently FAILED.
	RetryTransfer(ctx context.Context, transferID uuid.UUID) (*queue.Intent, error)
}
