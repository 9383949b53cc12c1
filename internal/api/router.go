package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bank-account-ledger/internal/api/handler"
	"github.com/bank-account-ledger/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application.
// The correlation id is assigned first so recovery and access logs carry it.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	auth gin.HandlerFunc,
	accountHandler *handler.AccountHandler,
	movementHandler *handler.MovementHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts", auth)
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.GET("/:id/history", accountHandler.History)
			accounts.GET("/:id/statement", accountHandler.Statement)

			accounts.POST("/withdraw", movementHandler.Withdraw)
			accounts.POST("/deposit", movementHandler.Deposit)
			accounts.POST("/transfer", movementHandler.Transfer)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
