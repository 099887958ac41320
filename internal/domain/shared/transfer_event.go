package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrSelfTransfer   = errors.New("sender and receiver must differ")
	ErrMissingAccount = errors.New("account id is required")
)

// TransferEvent describes a transfer whose sender-side debit has durably
// committed. The transfer ID equals the debit transaction ID, and amount > 0
// and FromAccount != ToAccount are guaranteed by the initiating path.
type TransferEvent struct {
	TransferID  uuid.UUID `json:"transfer_id"`
	FromAccount uuid.UUID `json:"from_account"`
	ToAccount   uuid.UUID `json:"to_account"`
	Amount      int64     `json:"amount"` // minor units
	Remarks     string    `json:"remarks,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
