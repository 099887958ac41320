package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/account"
	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

// CreditSettler implements Settler. One call applies the whole receiver-side
// settlement of an intent: lock the receiver row, write the new balance,
// append the CREDIT ledger record, mark the intent SUCCESS. All four run on
// the transaction passed in, so they commit or abort together.
type CreditSettler struct {
	accountRepo account.Repository
	txnRepo     transaction.Repository
	queueRepo   queue.Repository
	logger      *slog.Logger
}

// NewCreditSettler creates a settler backed by the given repositories
func NewCreditSettler(
	accountRepo account.Repository,
	txnRepo transaction.Repository,
	queueRepo queue.Repository,
	logger *slog.Logger,
) Settler {
	return &CreditSettler{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		queueRepo:   queueRepo,
		logger:      logger,
	}
}

// Settle credits the receiver of one claimed intent. A missing receiver, a
// lock-wait timeout and a storage failure all surface as plain errors; the
// caller rolls the savepoint back and books the attempt against the retry
// budget.
func (s *CreditSettler) Settle(ctx context.Context, tx pgx.Tx, intent *queue.Intent) error {
	accountRepo := s.accountRepo.WithTx(tx)

	receiver, err := accountRepo.LockForUpdate(ctx, intent.ToAccount)
	if err != nil {
		return fmt.Errorf("failed to lock receiver account: %w", err)
	}

	balanceBefore := receiver.Balance
	if err := receiver.Credit(intent.Amount); err != nil {
		return fmt.Errorf("failed to apply credit: %w", err)
	}

	if err := accountRepo.SetBalance(ctx, receiver.ID, receiver.Balance); err != nil {
		return fmt.Errorf("failed to write receiver balance: %w", err)
	}

	record, err := transaction.NewRecord(
		intent.ToAccount,
		shared.TransactionTypeCredit,
		intent.Amount,
		intent.Remarks,
		balanceBefore,
		&intent.FromAccount,
	)
	if err != nil {
		return fmt.Errorf("failed to build credit record: %w", err)
	}

	if err := s.txnRepo.WithTx(tx).Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append credit record: %w", err)
	}

	if err := s.queueRepo.WithTx(tx).MarkSuccess(ctx, intent.TransferID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark intent as SUCCESS: %w", err)
	}

	s.logger.Info("Settled transfer intent",
		"transfer_id", intent.TransferID.String(),
		"to_account", intent.ToAccount.String(),
		"amount", intent.Amount,
		"balance_before", balanceBefore,
		"balance_after", receiver.Balance,
	)

	return nil
}
