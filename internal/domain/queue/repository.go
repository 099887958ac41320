package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/shared"
)

// Filter is the typed specification for queue listings. Supported
// predicates are enumerated here; the listing interface accepts nothing
// else.
type Filter struct {
	Status shared.IntentStatus // empty means all statuses
	Limit  int
	Offset int
}

// Stats aggregates queue states for operational dashboards
type Stats struct {
	Pending int64 `json:"pending"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	Total   int64 `json:"total"`
}

// Repository manages transfer intent persistence
type Repository interface {
	// Enqueue inserts a PENDING intent. A transfer ID that already exists is
	// a no-op: a retried request never produces a second queued credit.
	Enqueue(ctx context.Context, intent *Intent) error

	// ClaimPending selects up to limit PENDING intents with a remaining retry
	// budget, oldest first, locking the selected rows so that no concurrent
	// worker can claim them until the surrounding transaction ends.
	ClaimPending(ctx context.Context, limit, maxRetries int) ([]*Intent, error)

	// MarkSuccess moves a claimed intent to its terminal success state.
	MarkSuccess(ctx context.Context, transferID uuid.UUID, processedAt time.Time) error

	// RecordFailure increments the retry counter and flips the intent to
	// FAILED once the counter reaches maxRetries. It returns the resulting
	// status and retry count.
	RecordFailure(ctx context.Context, transferID uuid.UUID, maxRetries int) (shared.IntentStatus, int, error)

	// ResetFailed atomically returns a FAILED intent to PENDING with
	// retry_count = 0. Returns ErrIntentNotFailed if the intent is missing or
	// not currently FAILED.
	ResetFailed(ctx context.Context, transferID uuid.UUID) (*Intent, error)

	GetByTransferID(ctx context.Context, transferID uuid.UUID) (*Intent, error)
	List(ctx context.Context, filter Filter) ([]*Intent, error)
	Stats(ctx context.Context) (*Stats, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrIntentNotFound indicates missing transfer intent
type ErrIntentNotFound struct {
	TransferID uuid.UUID
}

func (e ErrIntentNotFound) Error() string {
	return "transfer intent not found: " + e.TransferID.String()
}

// Is matches any ErrIntentNotFound when the target carries a nil ID
func (e ErrIntentNotFound) Is(target error) bool {
	t, ok := target.(ErrIntentNotFound)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrIntentNotFailed indicates a manual retry on an intent that is not in
// the FAILED state. The state is left unchanged.
type ErrIntentNotFailed struct {
	TransferID uuid.UUID
}

func (e ErrIntentNotFailed) Error() string {
	return "transfer intent not in FAILED status: " + e.TransferID.String()
}

// Is matches any ErrIntentNotFailed when the target carries a nil ID
func (e ErrIntentNotFailed) Is(target error) bool {
	t, ok := target.(ErrIntentNotFailed)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}
