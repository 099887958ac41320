package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

func TestOperatorService_RetryTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("ResetsFailedIntent", func(t *testing.T) {
		queueRepo := new(MockQueueRepository)
		svc := NewOperatorService(queueRepo, new(MockTransactionRepository), newTestLogger())

		transferID := uuid.New()
		reset := &queue.Intent{
			TransferID: transferID,
			Status:     shared.IntentStatusPending,
			RetryCount: 0,
			CreatedAt:  time.Now(),
		}
		queueRepo.On("ResetFailed", ctx, transferID).Return(reset, nil).Once()

		intent, err := svc.RetryTransfer(ctx, transferID)
		require.NoError(t, err)
		assert.Equal(t, shared.IntentStatusPending, intent.Status)
		assert.Equal(t, 0, intent.RetryCount)
		queueRepo.AssertExpectations(t)
	})

	t.Run("RejectsIntentThatIsNotFailed", func(t *testing.T) {
		queueRepo := new(MockQueueRepository)
		svc := NewOperatorService(queueRepo, new(MockTransactionRepository), newTestLogger())

		transferID := uuid.New()
		queueRepo.On("ResetFailed", ctx, transferID).
			Return(nil, queue.ErrIntentNotFailed{TransferID: transferID}).Once()

		intent, err := svc.RetryTransfer(ctx, transferID)
		assert.Nil(t, intent)
		assert.ErrorIs(t, err, queue.ErrIntentNotFailed{})
	})
}

func TestOperatorService_QueueStats(t *testing.T) {
	ctx := context.Background()
	queueRepo := new(MockQueueRepository)
	svc := NewOperatorService(queueRepo, new(MockTransactionRepository), newTestLogger())

	queueRepo.On("Stats", ctx).Return(&queue.Stats{Pending: 2, Success: 5, Failed: 1, Total: 8}, nil).Once()

	stats, err := svc.QueueStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(8), stats.Total)
}

func TestOperatorService_ListQueue(t *testing.T) {
	ctx := context.Background()
	queueRepo := new(MockQueueRepository)
	svc := NewOperatorService(queueRepo, new(MockTransactionRepository), newTestLogger())

	filter := queue.Filter{Status: shared.IntentStatusFailed, Limit: 10}
	intents := []*queue.Intent{{TransferID: uuid.New(), Status: shared.IntentStatusFailed, RetryCount: 3}}
	queueRepo.On("List", ctx, filter).Return(intents, nil).Once()

	got, err := svc.ListQueue(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shared.IntentStatusFailed, got[0].Status)
}

func TestOperatorService_TransactionStats(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepository)
	svc := NewOperatorService(new(MockQueueRepository), txnRepo, newTestLogger())

	txnRepo.On("Stats", ctx).
		Return(&transaction.Stats{CreditCount: 3, DebitCount: 4, TotalCredit: 900, TotalDebit: 1200}, nil).Once()

	stats, err := svc.TransactionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), stats.TotalDebit)
}
