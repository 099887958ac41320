package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/api/service"
	"github.com/ewallet-settlement/internal/domain/queue"
	"github.com/ewallet-settlement/internal/domain/shared"
	"github.com/ewallet-settlement/internal/domain/transaction"
)

// OperatorHandler handles HTTP requests for the operator dashboard: queue
// projections, ledger aggregates, and the manual retry action.
type OperatorHandler struct {
	operatorService service.OperatorService
	logger          *slog.Logger
}

// NewOperatorHandler creates a new operator handler
func NewOperatorHandler(logger *slog.Logger, operatorService service.OperatorService) *OperatorHandler {
	return &OperatorHandler{
		operatorService: operatorService,
		logger:          logger,
	}
}

// ListQueue lists transfer intents, optionally filtered by status
func (h *OperatorHandler) ListQueue(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter := queue.Filter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := shared.IntentStatus(statusParam)
		switch status {
		case shared.IntentStatusPending, shared.IntentStatusSuccess, shared.IntentStatusFailed:
			filter.Status = status
		default:
			RespondBadRequest(c, "Invalid status filter")
			return
		}
	}

	intents, err := h.operatorService.ListQueue(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list transfer queue", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]IntentResponse, 0, len(intents))
	for _, intent := range intents {
		responses = append(responses, mapIntentToResponse(intent))
	}

	RespondOK(c, gin.H{"intents": responses})
}

// QueueStats returns per-status intent counts
func (h *OperatorHandler) QueueStats(c *gin.Context) {
	stats, err := h.operatorService.QueueStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get queue stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, QueueStatsResponse{
		Pending: stats.Pending,
		Success: stats.Success,
		Failed:  stats.Failed,
		Total:   stats.Total,
	})
}

// RetryTransfer resets a FAILED intent to PENDING for the settlement worker
func (h *OperatorHandler) RetryTransfer(c *gin.Context) {
	idParam := c.Param("transfer_id")
	transferID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transfer ID", "transfer_id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transfer ID")
		return
	}

	intent, err := h.operatorService.RetryTransfer(c.Request.Context(), transferID)
	if err != nil {
		if errors.Is(err, queue.ErrIntentNotFailed{}) {
			RespondConflict(c, "Transfer intent is not in FAILED status")
			return
		}
		if errors.Is(err, queue.ErrIntentNotFound{}) {
			RespondNotFound(c, "Transfer intent not found")
			return
		}
		h.logger.Error("Failed to retry transfer", "transfer_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapIntentToResponse(intent))
}

// ListTransactions lists ledger records, optionally filtered by type
func (h *OperatorHandler) ListTransactions(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter := transaction.Filter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if typeParam := c.Query("type"); typeParam != "" {
		kind := shared.TransactionType(typeParam)
		switch kind {
		case shared.TransactionTypeCredit, shared.TransactionTypeDebit:
			filter.Type = kind
		default:
			RespondBadRequest(c, "Invalid type filter")
			return
		}
	}

	records, err := h.operatorService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	RespondOK(c, gin.H{"transactions": responses})
}

// TransactionStats returns ledger-wide aggregates
func (h *OperatorHandler) TransactionStats(c *gin.Context) {
	stats, err := h.operatorService.TransactionStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get transaction stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, TransactionStatsResponse{
		CreditCount: stats.CreditCount,
		DebitCount:  stats.DebitCount,
		TotalCredit: stats.TotalCredit,
		TotalDebit:  stats.TotalDebit,
	})
}

// mapIntentToResponse maps a transfer intent to an intent response DTO
func mapIntentToResponse(intent *queue.Intent) IntentResponse {
	response := IntentResponse{
		TransferID:  intent.TransferID.String(),
		FromAccount: intent.FromAccount.String(),
		ToAccount:   intent.ToAccount.String(),
		Amount:      intent.Amount,
		Remarks:     intent.Remarks,
		Status:      string(intent.Status),
		RetryCount:  intent.RetryCount,
		CreatedAt:   intent.CreatedAt.Format(time.RFC3339),
	}

	if intent.ProcessedAt != nil {
		response.ProcessedAt = intent.ProcessedAt.Format(time.RFC3339)
	}

	return response
}
