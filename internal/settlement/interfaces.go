package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/queue"
)

// TxManager abstracts the transactional boundaries the worker needs: one
// transaction per poll cycle, one savepoint per settlement attempt.
type TxManager interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	WithSavepoint(ctx context.Context, tx pgx.Tx, fn func(tx pgx.Tx) error) error
}

// Settler applies the credit side of one claimed intent inside the given
// transaction. Any returned error means the attempt left no trace: no
// balance change, no ledger record, no status update.
type Settler interface {
	Settle(ctx context.Context, tx pgx.Tx, intent *queue.Intent) error
}

// AttemptOutcome classifies one settlement attempt for the journal
type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "SUCCESS"
	OutcomeRetry   AttemptOutcome = "RETRY"
	OutcomeFailed  AttemptOutcome = "FAILED"
)

// AttemptRecord is one entry in the settlement attempt journal. It is an
// operational audit of what each poll cycle did, written best effort after
// the cycle's transaction commits.
type AttemptRecord struct {
	TransferID  uuid.UUID      `json:"transfer_id" bson:"transfer_id"`
	FromAccount uuid.UUID      `json:"from_account" bson:"from_account"`
	ToAccount   uuid.UUID      `json:"to_account" bson:"to_account"`
	Amount      int64          `json:"amount" bson:"amount"`
	Outcome     AttemptOutcome `json:"outcome" bson:"outcome"`
	RetryCount  int            `json:"retry_count" bson:"retry_count"`
	Error       string         `json:"error,omitempty" bson:"error,omitempty"`
	AttemptedAt time.Time      `json:"attempted_at" bson:"attempted_at"`
}

// AttemptJournal persists settlement attempt records
type AttemptJournal interface {
	Record(ctx context.Context, record *AttemptRecord) error
	GetByTransferID(ctx context.Context, transferID uuid.UUID) ([]*AttemptRecord, error)
}

// DeadLetterPublisher notifies operators about intents that exhausted their
// retry budget
type DeadLetterPublisher interface {
	PublishExhausted(ctx context.Context, intent *queue.Intent, reason string) error
	Close() error
}
