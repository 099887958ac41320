package handler

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	OwnerName      string `json:"owner_name" binding:"required"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	OwnerName string `json:"owner_name"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TopUpRequest represents a request to credit an account's own balance
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// PayRequest represents a request to debit an account's own balance
type PayRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Remarks string `json:"remarks,omitempty"`
}

// TransferRequest represents a request to move funds between two accounts
type TransferRequest struct {
	ToAccount string `json:"to_account" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Remarks   string `json:"remarks,omitempty"`
}

// ReceiptResponse represents the sender-side result of a wallet operation
type ReceiptResponse struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Remarks       string `json:"remarks,omitempty"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	CreatedAt     string `json:"created_at"`
}

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id"`
	Type           string `json:"type"`
	Amount         int64  `json:"amount"`
	Remarks        string `json:"remarks,omitempty"`
	BalanceBefore  int64  `json:"balance_before"`
	BalanceAfter   int64  `json:"balance_after"`
	CounterpartyID string `json:"counterparty_id,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// IntentResponse represents a queued transfer intent in API responses
type IntentResponse struct {
	TransferID  string `json:"transfer_id"`
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      int64  `json:"amount"`
	Remarks     string `json:"remarks,omitempty"`
	Status      string `json:"status"`
	RetryCount  int    `json:"retry_count"`
	CreatedAt   string `json:"created_at"`
	ProcessedAt string `json:"processed_at,omitempty"`
}

// QueueStatsResponse represents aggregate queue counts in API responses
type QueueStatsResponse struct {
	Pending int64 `json:"pending"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	Total   int64 `json:"total"`
}

// TransactionStatsResponse represents aggregate ledger totals in API responses
type TransactionStatsResponse struct {
	CreditCount int64 `json:"credit_count"`
	DebitCount  int64 `json:"debit_count"`
	TotalCredit int64 `json:"total_credit"`
	TotalDebit  int64 `json:"total_debit"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}
