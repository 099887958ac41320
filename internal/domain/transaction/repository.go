package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/shared"
)

// Filter is the typed specification for ledger listings. Only the
// enumerated predicates are supported; there is no free-form query
// assembly behind it.
type Filter struct {
	Type   shared.TransactionType // empty means both CREDIT and DEBIT
	Limit  int
	Offset int
}

// Stats aggregates the ledger for operational dashboards
type Stats struct {
	CreditCount int64 `json:"credit_count"`
	DebitCount  int64 `json:"debit_count"`
	TotalCredit int64 `json:"total_credit"`
	TotalDebit  int64 `json:"total_debit"`
}

// Repository manages append-only ledger records. There is no update or
// delete operation: records are immutable once appended.
type Repository interface {
	Append(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrRecordNotFound indicates missing ledger record
type ErrRecordNotFound struct {
	ID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.ID.String()
}

// Is matches any ErrRecordNotFound when the target carries a nil ID
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
