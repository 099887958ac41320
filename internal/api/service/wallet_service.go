package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/account"
	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

// walletService implements the synchronous money operations. Every mutation
// follows the same locked read-modify-write shape: lock the account row,
// apply the domain rule, write the balance, append the ledger record, all in
// one transaction.
type walletService struct {
	txm         TxManager
	accountRepo account.Repository
	txnRepo     transaction.Repository
	queueRepo   queue.Repository
	logger      *slog.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(
	txm TxManager,
	accountRepo account.Repository,
	txnRepo transaction.Repository,
	queueRepo queue.Repository,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		txm:         txm,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		queueRepo:   queueRepo,
		logger:      logger,
	}
}

// TopUp credits the account's own balance
func (s *walletService) TopUp(ctx context.Context, accountID uuid.UUID, amount int64) (*Receipt, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	return s.lockedAdjust(ctx, accountID, amount, shared.TransactionTypeCredit, "", nil)
}

// Pay debits the account's own balance
func (s *walletService) Pay(ctx context.Context, accountID uuid.UUID, amount int64, remarks string) (*Receipt, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	return s.lockedAdjust(ctx, accountID, amount, shared.TransactionTypeDebit, remarks, nil)
}

// Transfer debits the sender and enqueues the receiver credit in the same
// transaction. The sender's request is complete once both are durable; the
// receiver credit is applied later by the settlement worker.
func (s *walletService) Transfer(ctx context.Context, fromAccount, toAccount uuid.UUID, amount int64, remarks string) (*Receipt, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if fromAccount == toAccount {
		return nil, shared.ErrSelfTransfer
	}

	var receipt *Receipt
	err := s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)

		// The receiver must exist at initiation time. The settlement worker
		// re-resolves it at settlement time regardless.
		if _, err := accountRepo.GetByID(ctx, toAccount); err != nil {
			return err
		}

		sender, err := accountRepo.LockForUpdate(ctx, fromAccount)
		if err != nil {
			return err
		}

		balanceBefore := sender.Balance
		if err := sender.Debit(amount); err != nil {
			return err
		}

		if err := accountRepo.SetBalance(ctx, sender.ID, sender.Balance); err != nil {
			return err
		}

		record, err := transaction.NewRecord(
			fromAccount,
			shared.TransactionTypeDebit,
			amount,
			remarks,
			balanceBefore,
			&toAccount,
		)
		if err != nil {
			return err
		}

		if err := s.txnRepo.WithTx(tx).Append(ctx, record); err != nil {
			return err
		}

		// The transfer ID is the debit transaction ID. Enqueue is idempotent
		// on it, so a replayed request cannot queue a second credit.
		intent := queue.NewIntent(&shared.TransferEvent{
			TransferID:  record.ID,
			FromAccount: fromAccount,
			ToAccount:   toAccount,
			Amount:      amount,
			Remarks:     remarks,
			Timestamp:   record.CreatedAt,
		})
		if err := s.queueRepo.WithTx(tx).Enqueue(ctx, intent); err != nil {
			return err
		}

		receipt = &Receipt{
			TransactionID: record.ID,
			Amount:        amount,
			Remarks:       remarks,
			BalanceBefore: balanceBefore,
			BalanceAfter:  sender.Balance,
			CreatedAt:     record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer initiated",
		"transfer_id", receipt.TransactionID.String(),
		"from_account", fromAccount.String(),
		"to_account", toAccount.String(),
		"amount", amount,
	)

	return receipt, nil
}

// History lists an account's ledger records, newest first
func (s *walletService) History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Record, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.txnRepo.GetByAccountID(ctx, accountID, limit, offset)
}

// lockedAdjust applies one balance mutation and its ledger record as a
// single atomic unit under the account row lock. Debits are rejected with
// ErrInsufficientFunds while the lock is held, so a concurrent debit on the
// same account cannot overdraw it.
func (s *walletService) lockedAdjust(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
	kind shared.TransactionType,
	remarks string,
	counterpartyID *uuid.UUID,
) (*Receipt, error) {
	var receipt *Receipt
	err := s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)

		acc, err := accountRepo.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		balanceBefore := acc.Balance
		if kind == shared.TransactionTypeCredit {
			err = acc.Credit(amount)
		} else {
			err = acc.Debit(amount)
		}
		if err != nil {
			return err
		}

		if err := accountRepo.SetBalance(ctx, acc.ID, acc.Balance); err != nil {
			return err
		}

		record, err := transaction.NewRecord(accountID, kind, amount, remarks, balanceBefore, counterpartyID)
		if err != nil {
			return err
		}

		if err := s.txnRepo.WithTx(tx).Append(ctx, record); err != nil {
			return err
		}

		receipt = &Receipt{
			TransactionID: record.ID,
			Amount:        amount,
			Remarks:       remarks,
			BalanceBefore: balanceBefore,
			BalanceAfter:  acc.Balance,
			CreatedAt:     record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locked adjust on account %s: %w", accountID.String(), err)
	}

	return receipt, nil
}
