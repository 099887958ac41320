package shared

// TransactionType defines the two sides of a ledger mutation
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// TransactionStatus defines ledger record states. Records are appended
// once in a terminal state and never updated afterwards.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
)

// IntentStatus defines transfer queue states
type IntentStatus string

const (
	IntentStatusPending IntentStatus = "PENDING"
	IntentStatusSuccess IntentStatus = "SUCCESS"
	IntentStatusFailed  IntentStatus = "FAILED"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s IntentStatus) Terminal() bool {
	return s == IntentStatusSuccess || s == IntentStatusFailed
}
