package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/panjf2000/ants/v2"

	"github.com/ewallet-settlement/internal/config"
	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
)

// Worker polls the transfer queue on a fixed interval and settles claimed
// intents. Overlapping cycles within one process are suppressed by an atomic
// flag; across processes the only synchronization is the row locking done by
// the claim query and the receiver account lock, so any number of worker
// instances can run against the same database.
type Worker struct {
	txm          TxManager
	queueRepo    queue.Repository
	settler      Settler
	journal      AttemptJournal
	deadLetter   DeadLetterPublisher
	sideEffects  *ants.Pool
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	lockTimeout  time.Duration
	inFlight     atomic.Bool
}

// NewWorker creates a settlement worker. journal and deadLetter may be nil;
// the corresponding side effects are then skipped.
func NewWorker(
	cfg *config.SettlementConfig,
	lockTimeout time.Duration,
	txm TxManager,
	queueRepo queue.Repository,
	settler Settler,
	journal AttemptJournal,
	deadLetter DeadLetterPublisher,
	logger *slog.Logger,
) (*Worker, error) {
	pool, err := ants.NewPool(cfg.SideEffectPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create side-effect pool: %w", err)
	}

	return &Worker{
		txm:          txm,
		queueRepo:    queueRepo,
		settler:      settler,
		journal:      journal,
		deadLetter:   deadLetter,
		sideEffects:  pool,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
		lockTimeout:  lockTimeout,
	}, nil
}

// Start polls until the context is canceled. The first cycle runs
// immediately instead of waiting for the first interval to elapse.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting settlement worker",
		"poll_interval", w.pollInterval.String(),
		"batch_size", w.batchSize,
		"max_retries", w.maxRetries,
	)

	if err := w.RunCycle(ctx); err != nil {
		w.logger.Error("Settlement cycle failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Settlement worker stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := w.RunCycle(ctx); err != nil {
				w.logger.Error("Settlement cycle failed", "error", err)
			}
		}
	}
}

// Shutdown releases the side-effect pool
func (w *Worker) Shutdown() {
	w.sideEffects.Release()
}

// RunCycle executes one claim-and-process pass. It is a no-op when a
// previous cycle on this instance is still running.
func (w *Worker) RunCycle(ctx context.Context) error {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.logger.Debug("Previous settlement cycle still running, skipping tick")
		return nil
	}
	defer w.inFlight.Store(false)

	var attempts []*AttemptRecord
	err := w.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if w.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", w.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}

		qtx := w.queueRepo.WithTx(tx)
		intents, err := qtx.ClaimPending(ctx, w.batchSize, w.maxRetries)
		if err != nil {
			return err
		}

		if len(intents) == 0 {
			w.logger.Debug("No pending transfer intents")
			return nil
		}

		w.logger.Info("Claimed pending transfer intents", "count", len(intents))

		for _, intent := range intents {
			attempts = append(attempts, w.settleOne(ctx, tx, qtx, intent))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("settlement cycle transaction failed: %w", err)
	}

	w.dispatchSideEffects(ctx, attempts)
	return nil
}

// settleOne runs one settlement attempt inside a savepoint on the cycle
// transaction. A failed attempt rolls the savepoint back and books the
// failure on the still-locked intent row; it never aborts the cycle, so one
// poisoned intent cannot stall the rest of the batch.
func (w *Worker) settleOne(ctx context.Context, tx pgx.Tx, qtx queue.Repository, intent *queue.Intent) *AttemptRecord {
	record := &AttemptRecord{
		TransferID:  intent.TransferID,
		FromAccount: intent.FromAccount,
		ToAccount:   intent.ToAccount,
		Amount:      intent.Amount,
		AttemptedAt: time.Now().UTC(),
	}

	settleErr := w.txm.WithSavepoint(ctx, tx, func(sp pgx.Tx) error {
		return w.settler.Settle(ctx, sp, intent)
	})
	if settleErr == nil {
		record.Outcome = OutcomeSuccess
		record.RetryCount = intent.RetryCount
		return record
	}

	w.logger.Warn("Settlement attempt failed",
		"transfer_id", intent.TransferID.String(),
		"retry_count", intent.RetryCount,
		"error", settleErr,
	)
	record.Error = settleErr.Error()

	status, retryCount, err := qtx.RecordFailure(ctx, intent.TransferID, w.maxRetries)
	if err != nil {
		w.logger.Error("Failed to record settlement failure",
			"transfer_id", intent.TransferID.String(),
			"error", err,
		)
		record.Outcome = OutcomeRetry
		record.RetryCount = intent.RetryCount
		return record
	}

	record.RetryCount = retryCount
	if status == shared.IntentStatusFailed {
		w.logger.Warn("Transfer intent exhausted retries, marked FAILED",
			"transfer_id", intent.TransferID.String(),
			"retry_count", retryCount,
		)
		record.Outcome = OutcomeFailed
	} else {
		record.Outcome = OutcomeRetry
	}

	return record
}

// dispatchSideEffects hands journal writes and dead-letter publishes to the
// ants pool after the cycle transaction has committed. Both are best effort:
// a failure is logged and never touches queue state.
func (w *Worker) dispatchSideEffects(ctx context.Context, attempts []*AttemptRecord) {
	for _, attempt := range attempts {
		attempt := attempt
		err := w.sideEffects.Submit(func() {
			if w.journal != nil {
				if err := w.journal.Record(ctx, attempt); err != nil {
					w.logger.Error("Failed to journal settlement attempt",
						"transfer_id", attempt.TransferID.String(),
						"error", err,
					)
				}
			}

			if attempt.Outcome == OutcomeFailed && w.deadLetter != nil {
				intent := &queue.Intent{
					TransferID:  attempt.TransferID,
					FromAccount: attempt.FromAccount,
					ToAccount:   attempt.ToAccount,
					Amount:      attempt.Amount,
					Status:      shared.IntentStatusFailed,
					RetryCount:  attempt.RetryCount,
				}
				if err := w.deadLetter.PublishExhausted(ctx, intent, attempt.Error); err != nil {
					w.logger.Error("Failed to publish exhausted intent to dead letter topic",
						"transfer_id", attempt.TransferID.String(),
						"error", err,
					)
				}
			}
		})
		if err != nil {
			w.logger.Error("Failed to submit settlement side effects",
				"transfer_id", attempt.TransferID.String(),
				"error", err,
			)
		}
	}
}
