package handler

import (
	"log/slog"

	"github.com/bank-account-ledger/internal/api/service"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

// MovementHandler serves withdrawals, deposits and transfers
type MovementHandler struct {
	movementService service.MovementService
	logger          *slog.Logger
}

func NewMovementHandler(logger *slog.Logger, movementService service.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		logger:          logger,
	}
}

func (h *MovementHandler) Withdraw(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.movementService.Withdraw(c.Request.Context(), ledger.WithdrawRequest{
		Amount:           req.Amount,
		WAccountNumber:   req.WAccountNumber,
		WAccountPassword: req.WAccountPassword,
	}, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapHistoryToMovement(record))
}

func (h *MovementHandler) Deposit(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.movementService.Deposit(c.Request.Context(), ledger.DepositRequest{
		Amount:         req.Amount,
		DAccountNumber: req.DAccountNumber,
	}, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapHistoryToMovement(record))
}

func (h *MovementHandler) Transfer(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.movementService.Transfer(c.Request.Context(), ledger.TransferRequest{
		Amount:         req.Amount,
		WAccountNumber: req.WAccountNumber,
		DAccountNumber: req.DAccountNumber,
		Password:       req.Password,
	}, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapHistoryToMovement(record))
}
