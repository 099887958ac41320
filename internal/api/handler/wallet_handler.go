package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/api/service"
	"github.com/ewallet-settlement/internal/domain/account"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

// WalletHandler handles HTTP requests for the synchronous money operations
type WalletHandler struct {
	walletService service.WalletService
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, walletService service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// TopUp credits the account's own balance
func (h *WalletHandler) TopUp(c *gin.Context) {
	accountID, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.walletService.TopUp(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		h.respondWalletError(c, err)
		return
	}

	RespondOK(c, mapReceiptToResponse(receipt))
}

// Pay debits the account's own balance
func (h *WalletHandler) Pay(c *gin.Context) {
	accountID, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.walletService.Pay(c.Request.Context(), accountID, req.Amount, req.Remarks)
	if err != nil {
		h.respondWalletError(c, err)
		return
	}

	RespondOK(c, mapReceiptToResponse(receipt))
}

// Transfer debits the sender and queues the receiver credit. The 202 reflects
// that the receiver side has not settled yet.
func (h *WalletHandler) Transfer(c *gin.Context) {
	fromAccount, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	toAccount, err := uuid.Parse(req.ToAccount)
	if err != nil {
		h.logger.Error("Invalid receiver account ID", "to_account", req.ToAccount, "error", err)
		RespondBadRequest(c, "Invalid receiver account ID")
		return
	}

	receipt, err := h.walletService.Transfer(c.Request.Context(), fromAccount, toAccount, req.Amount, req.Remarks)
	if err != nil {
		h.respondWalletError(c, err)
		return
	}

	RespondAccepted(c, gin.H{
		"transfer_id": receipt.TransactionID.String(),
		"status":      string(shared.IntentStatusPending),
		"receipt":     mapReceiptToResponse(receipt),
	})
}

// History returns an account's ledger records, newest first
func (h *WalletHandler) History(c *gin.Context) {
	accountID, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, err := h.walletService.History(c.Request.Context(), accountID, pagination.Limit, pagination.Offset)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get transaction history", "account_id", accountID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	transactions := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, mapRecordToResponse(record))
	}

	RespondOK(c, gin.H{"transactions": transactions})
}

func (h *WalletHandler) parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *WalletHandler) respondWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidAmount), errors.Is(err, account.ErrInvalidAmount):
		RespondBadRequest(c, "Amount must be positive")
	case errors.Is(err, shared.ErrSelfTransfer):
		RespondBadRequest(c, "Sender and receiver must differ")
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrInsufficientFunds):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", "Insufficient funds")
	default:
		h.logger.Error("Wallet operation failed", "error", err)
		RespondInternalError(c)
	}
}

// mapReceiptToResponse maps a service receipt to a receipt response DTO
func mapReceiptToResponse(receipt *service.Receipt) ReceiptResponse {
	return ReceiptResponse{
		TransactionID: receipt.TransactionID.String(),
		Amount:        receipt.Amount,
		Remarks:       receipt.Remarks,
		BalanceBefore: receipt.BalanceBefore,
		BalanceAfter:  receipt.BalanceAfter,
		CreatedAt:     receipt.CreatedAt.Format(time.RFC3339),
	}
}

// mapRecordToResponse maps a ledger record to a transaction response DTO
func mapRecordToResponse(record *transaction.Record) TransactionResponse {
	response := TransactionResponse{
		ID:            record.ID.String(),
		AccountID:     record.AccountID.String(),
		Type:          string(record.Type),
		Amount:        record.Amount,
		Remarks:       record.Remarks,
		BalanceBefore: record.BalanceBefore,
		BalanceAfter:  record.BalanceAfter,
		Status:        string(record.Status),
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	}

	if record.CounterpartyID != nil {
		response.CounterpartyID = record.CounterpartyID.String()
	}

	return response
}
