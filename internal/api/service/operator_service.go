package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

type operatorService struct {
	queueRepo queue.Repository
	txnRepo   transaction.Repository
	logger    *slog.Logger
}

// NewOperatorService creates a new operator service
func NewOperatorService(queueRepo queue.Repository, txnRepo transaction.Repository, logger *slog.Logger) OperatorService {
	return &operatorService{
		queueRepo: queueRepo,
		txnRepo:   txnRepo,
		logger:    logger,
	}
}

func (s *operatorService) ListQueue(ctx context.Context, filter queue.Filter) ([]*queue.Intent, error) {
	return s.queueRepo.List(ctx, filter)
}

func (s *operatorService) QueueStats(ctx context.Context) (*queue.Stats, error) {
	return s.queueRepo.Stats(ctx)
}

func (s *operatorService) ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Record, error) {
	return s.txnRepo.List(ctx, filter)
}

func (s *operatorService) TransactionStats(ctx context.Context) (*transaction.Stats, error) {
	return s.txnRepo.Stats(ctx)
}

// RetryTransfer puts a FAILED intent back in front of the settlement worker.
// The reset only succeeds against an intent that is currently FAILED, so a
// concurrent settlement or double click cannot re-open a live intent.
func (s *operatorService) RetryTransfer(ctx context.Context, transferID uuid.UUID) (*queue.Intent, error) {
	intent, err := s.queueRepo.ResetFailed(ctx, transferID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer intent reset for retry",
		"transfer_id", transferID.String(),
		"status", string(intent.Status),
	)
	return intent, nil
}
