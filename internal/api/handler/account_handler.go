package handler

import (
	"log/slog"
	"net/http"

	"github.com/bank-account-ledger/internal/api/middleware"
	"github.com/bank-account-ledger/internal/api/service"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler serves the account endpoints of the authenticated principal
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens an account owned by the caller
func (h *AccountHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.OpenAccount(c.Request.Context(), ledger.OpenAccountRequest{
		Number:   req.Number,
		Password: req.Password,
		Balance:  req.Balance,
	}, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns every account the caller owns
func (h *AccountHandler) List(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, mapAccountToResponse(acc))
	}
	RespondOK(c, response)
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseAccountID(c)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// History lists movements of one account, newest first, filtered by ?type=
func (h *AccountHandler) History(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseAccountID(c)
	if !ok {
		return
	}

	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid history type: "+err.Error())
		return
	}
	direction, err := history.ParseDirection(query.Type)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	views, err := h.accountService.GetHistory(c.Request.Context(), id, direction, principal)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}

	response := make([]HistoryResponse, 0, len(views))
	for _, v := range views {
		response = append(response, mapViewToResponse(v))
	}
	RespondOK(c, response)
}

// Statement pages through the projected debit/credit entries of one account
func (h *AccountHandler) Statement(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseAccountID(c)
	if !ok {
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	entries, total, err := h.accountService.GetStatement(c.Request.Context(), id, principal, params.Page, params.PerPage)
	if err != nil {
		RespondLedgerError(c, h.logger, err)
		return
	}

	response := make([]StatementEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, mapEntryToResponse(e))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, params.Page, params.PerPage, total)
}

func requirePrincipal(c *gin.Context) (string, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondUnauthorized(c)
		return "", false
	}
	return principal, true
}

func parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}
