package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ewallet-settlement/internal/api/handler"
	"github.com/ewallet-settlement/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	walletHandler *handler.WalletHandler,
	operatorHandler *handler.OperatorHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account and wallet operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.POST("/:id/topup", walletHandler.TopUp)
			accounts.POST("/:id/pay", walletHandler.Pay)
			accounts.POST("/:id/transfer", walletHandler.Transfer)
			accounts.GET("/:id/transactions", walletHandler.History)
		}

		// Operator dashboard
		operator := v1.Group("/operator")
		{
			operator.GET("/queue", operatorHandler.ListQueue)
			operator.GET("/queue/stats", operatorHandler.QueueStats)
			operator.POST("/queue/:transfer_id/retry", operatorHandler.RetryTransfer)
			operator.GET("/transactions", operatorHandler.ListTransactions)
			operator.GET("/transactions/stats", operatorHandler.TransactionStats)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
