package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/domain/shared"
)

// Intent is a durable record of a credit still owed to the receiver of a
// transfer whose sender-side debit has already committed. The transfer ID is
// the debit transaction ID, and its primary-key uniqueness makes enqueueing
// idempotent. Intents are never deleted; they end in SUCCESS or FAILED.
type Intent struct {
	TransferID  uuid.UUID           `json:"transfer_id"`
	FromAccount uuid.UUID           `json:"from_account"`
	ToAccount   uuid.UUID           `json:"to_account"`
	Amount      int64               `json:"amount"` // Stored in cents/minor units
	Remarks     string              `json:"remarks,omitempty"`
	Status      shared.IntentStatus `json:"status"`
	RetryCount  int                 `json:"retry_count"`
	CreatedAt   time.Time           `json:"created_at"`
	ProcessedAt *time.Time          `json:"processed_at,omitempty"`
}

// NewIntent creates a PENDING intent from a committed debit event.
func NewIntent(event *shared.TransferEvent) *Intent {
	return &Intent{
		TransferID:  event.TransferID,
		FromAccount: event.FromAccount,
		ToAccount:   event.ToAccount,
		Amount:      event.Amount,
		Remarks:     event.Remarks,
		Status:      shared.IntentStatusPending,
		RetryCount:  0,
		CreatedAt:   time.Now(),
	}
}

// MarkSuccess transitions the intent to its terminal success state.
func (i *Intent) MarkSuccess() {
	i.Status = shared.IntentStatusSuccess
	now := time.Now()
	i.ProcessedAt = &now
}

// RecordFailure applies one failed settlement attempt: the retry counter is
// incremented and the intent becomes FAILED once the counter reaches
// maxRetries, otherwise it stays PENDING for a later cycle.
func (i *Intent) RecordFailure(maxRetries int) {
	i.RetryCount++
	if i.RetryCount >= maxRetries {
		i.Status = shared.IntentStatusFailed
	}
}

// Reset returns a FAILED intent to PENDING with a fresh retry budget.
// It reports false when the intent is not currently FAILED.
func (i *Intent) Reset() bool {
	if i.Status != shared.IntentStatusFailed {
		return false
	}
	i.Status = shared.IntentStatusPending
	i.RetryCount = 0
	return true
}
