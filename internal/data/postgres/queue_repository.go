package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/platform/persistence"
)

const intentColumns = "transfer_id, from_account, to_account, amount, remarks, status, retry_count, created_at, processed_at"

// QueueRepository implements the queue.Repository interface for PostgreSQL
type QueueRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewQueueRepository creates a new PostgreSQL transfer queue repository
func NewQueueRepository(logger *slog.Logger, db *persistence.PostgresDB) queue.Repository {
	return &QueueRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. Claimed rows stay locked
// for as long as that transaction lives.
func (r *QueueRepository) WithTx(tx pgx.Tx) queue.Repository {
	return &QueueRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Enqueue inserts a PENDING intent. The primary key on transfer_id makes a
// duplicate enqueue a no-op rather than a second queued credit.
func (r *QueueRepository) Enqueue(ctx context.Context, intent *queue.Intent) error {
	query := `
		INSERT INTO transfer_queue (transfer_id, from_account, to_account, amount, remarks, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (transfer_id) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query,
		intent.TransferID,
		intent.FromAccount,
		intent.ToAccount,
		intent.Amount,
		intent.Remarks,
		intent.Status,
		intent.RetryCount,
		intent.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to enqueue transfer intent",
			"transfer_id", intent.TransferID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to enqueue transfer intent: %w", err)
	}

	if result.RowsAffected() == 0 {
		r.logger.Info("Transfer intent already enqueued, skipping",
			"transfer_id", intent.TransferID.String(),
		)
	}

	return nil
}

// ClaimPending selects up to limit PENDING intents with retry budget left,
// oldest first. FOR UPDATE SKIP LOCKED marks the rows as claimed: another
// worker process running the same query concurrently skips them instead of
// blocking, so no intent is handed to two workers.
func (r *QueueRepository) ClaimPending(ctx context.Context, limit, maxRetries int) ([]*queue.Intent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM transfer_queue
		WHERE status = $1 AND retry_count < $2
		ORDER BY created_at ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.querier.Query(ctx, query, shared.IntentStatusPending, maxRetries, limit)
	if err != nil {
		r.logger.Error("Failed to claim pending transfer intents", "error", err)
		return nil, fmt.Errorf("failed to claim pending transfer intents: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// MarkSuccess moves a claimed intent to its terminal success state
func (r *QueueRepository) MarkSuccess(ctx context.Context, transferID uuid.UUID, processedAt time.Time) error {
	query := `
		UPDATE transfer_queue
		SET status = $1, processed_at = $2
		WHERE transfer_id = $3
	`

	result, err := r.querier.Exec(ctx, query, shared.IntentStatusSuccess, processedAt, transferID)
	if err != nil {
		r.logger.Error("Failed to mark transfer intent as SUCCESS",
			"transfer_id", transferID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to mark transfer intent as SUCCESS: %w", err)
	}

	if result.RowsAffected() == 0 {
		return queue.ErrIntentNotFound{TransferID: transferID}
	}

	return nil
}

// RecordFailure increments the retry counter and flips the intent to FAILED
// once the counter reaches maxRetries. The CASE keeps the increment and the
// terminal transition in one statement, so the state machine cannot be
// observed between the two.
func (r *QueueRepository) RecordFailure(ctx context.Context, transferID uuid.UUID, maxRetries int) (shared.IntentStatus, int, error) {
	query := `
		UPDATE transfer_queue
		SET retry_count = retry_count + 1,
		    status = CASE WHEN retry_count + 1 >= $1 THEN 'FAILED' ELSE 'PENDING' END
		WHERE transfer_id = $2
		RETURNING status, retry_count
	`

	var status shared.IntentStatus
	var retryCount int
	err := r.querier.QueryRow(ctx, query, maxRetries, transferID).Scan(&status, &retryCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, queue.ErrIntentNotFound{TransferID: transferID}
		}
		r.logger.Error("Failed to record settlement failure",
			"transfer_id", transferID.String(),
			"error", err,
		)
		return "", 0, fmt.Errorf("failed to record settlement failure: %w", err)
	}

	return status, retryCount, nil
}

// ResetFailed atomically returns a FAILED intent to PENDING with a fresh
// retry budget. The status guard in the WHERE clause makes a reset on a
// PENDING or SUCCESS intent a rejected no-op.
func (r *QueueRepository) ResetFailed(ctx context.Context, transferID uuid.UUID) (*queue.Intent, error) {
	query := `
		UPDATE transfer_queue
		SET status = $1, retry_count = 0
		WHERE transfer_id = $2 AND status = $3
		RETURNING ` + intentColumns + `
	`

	intent, err := r.scanRow(r.querier.QueryRow(ctx, query, shared.IntentStatusPending, transferID, shared.IntentStatusFailed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queue.ErrIntentNotFailed{TransferID: transferID}
		}
		r.logger.Error("Failed to reset FAILED transfer intent",
			"transfer_id", transferID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to reset FAILED transfer intent: %w", err)
	}

	return intent, nil
}

// GetByTransferID retrieves a single intent
func (r *QueueRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) (*queue.Intent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM transfer_queue
		WHERE transfer_id = $1
	`

	intent, err := r.scanRow(r.querier.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queue.ErrIntentNotFound{TransferID: transferID}
		}
		r.logger.Error("Failed to get transfer intent",
			"transfer_id", transferID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get transfer intent: %w", err)
	}

	return intent, nil
}

// List retrieves intents matching the typed filter, newest first
func (r *QueueRepository) List(ctx context.Context, filter queue.Filter) ([]*queue.Intent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM transfer_queue
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Failed to list transfer intents", "error", err)
		return nil, fmt.Errorf("failed to list transfer intents: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Stats aggregates queue states for dashboards
func (r *QueueRepository) Stats(ctx context.Context) (*queue.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
			COUNT(*) FILTER (WHERE status = 'SUCCESS') AS success,
			COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
			COUNT(*) AS total
		FROM transfer_queue
	`

	var stats queue.Stats
	err := r.querier.QueryRow(ctx, query).Scan(
		&stats.Pending,
		&stats.Success,
		&stats.Failed,
		&stats.Total,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate queue stats", "error", err)
		return nil, fmt.Errorf("failed to aggregate queue stats: %w", err)
	}

	return &stats, nil
}

func (r *QueueRepository) scanRow(row pgx.Row) (*queue.Intent, error) {
	var intent queue.Intent
	err := row.Scan(
		&intent.TransferID,
		&intent.FromAccount,
		&intent.ToAccount,
		&intent.Amount,
		&intent.Remarks,
		&intent.Status,
		&intent.RetryCount,
		&intent.CreatedAt,
		&intent.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *QueueRepository) collect(rows pgx.Rows) ([]*queue.Intent, error) {
	var intents []*queue.Intent
	for rows.Next() {
		var intent queue.Intent
		err := rows.Scan(
			&intent.TransferID,
			&intent.FromAccount,
			&intent.ToAccount,
			&intent.Amount,
			&intent.Remarks,
			&intent.Status,
			&intent.RetryCount,
			&intent.CreatedAt,
			&intent.ProcessedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transfer intent", "error", err)
			return nil, fmt.Errorf("failed to scan transfer intent: %w", err)
		}
		intents = append(intents, &intent)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transfer intents", "error", err)
		return nil, fmt.Errorf("error iterating over transfer intents: %w", err)
	}

	return intents, nil
}
