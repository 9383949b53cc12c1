package handler

import (
	"time"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/statement"
)

// OpenAccountRequest opens an account for the authenticated principal
type OpenAccountRequest struct {
	Number   string `json:"number" binding:"required,max=32"`
	Password string `json:"password" binding:"required,max=72"`
	Balance  int64  `json:"balance" binding:"min=0"`
}

type WithdrawRequest struct {
	Amount           int64  `json:"amount" binding:"required,gt=0"`
	WAccountNumber   string `json:"w_account_number" binding:"required"`
	WAccountPassword string `json:"w_account_password" binding:"required"`
}

type DepositRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	DAccountNumber string `json:"d_account_number" binding:"required"`
}

// TransferRequest moves funds; Password belongs to the withdrawal account
type TransferRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	WAccountNumber string `json:"w_account_number" binding:"required"`
	DAccountNumber string `json:"d_account_number" binding:"required,nefield=WAccountNumber"`
	Password       string `json:"password" binding:"required"`
}

// HistoryQuery selects history rows by direction
type HistoryQuery struct {
	Type string `form:"type,default=all" binding:"omitempty,oneof=all withdrawal deposit"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

type AccountResponse struct {
	ID               string `json:"id"`
	Number           string `json:"number"`
	Balance          int64  `json:"balance"`
	FormattedBalance string `json:"formatted_balance"`
	CreatedAt        string `json:"created_at"`
}

type HistoryResponse struct {
	ID                 string `json:"id"`
	Amount             int64  `json:"amount"`
	FormattedAmount    string `json:"formatted_amount"`
	Balance            int64  `json:"balance"`
	FormattedBalance   string `json:"formatted_balance"`
	Sender             string `json:"sender,omitempty"`
	Receiver           string `json:"receiver,omitempty"`
	CreatedAt          string `json:"created_at"`
	FormattedCreatedAt string `json:"formatted_created_at"`
}

// MovementResponse describes the history record a movement produced
type MovementResponse struct {
	HistoryID  string `json:"history_id"`
	Kind       string `json:"kind"`
	Amount     int64  `json:"amount"`
	WAccountID string `json:"w_account_id,omitempty"`
	WBalance   *int64 `json:"w_balance,omitempty"`
	DAccountID string `json:"d_account_id,omitempty"`
	DBalance   *int64 `json:"d_balance,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type StatementEntryResponse struct {
	HistoryID    string `json:"history_id"`
	Side         string `json:"side"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	Balance      int64  `json:"balance"`
	Counterparty string `json:"counterparty,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:               acc.ID.String(),
		Number:           acc.Number,
		Balance:          acc.Balance,
		FormattedBalance: history.FormatAmount(acc.Balance),
		CreatedAt:        acc.CreatedAt.Format(time.RFC3339),
	}
}

func mapViewToResponse(v *history.View) HistoryResponse {
	return HistoryResponse{
		ID:                 v.ID.String(),
		Amount:             v.Amount,
		FormattedAmount:    v.FormattedAmount(),
		Balance:            v.Balance,
		FormattedBalance:   v.FormattedBalance(),
		Sender:             v.Sender,
		Receiver:           v.Receiver,
		CreatedAt:          v.CreatedAt.Format(time.RFC3339),
		FormattedCreatedAt: v.FormattedCreatedAt(),
	}
}

func mapHistoryToMovement(h *history.History) MovementResponse {
	resp := MovementResponse{
		HistoryID: h.ID.String(),
		Kind:      string(h.Kind()),
		Amount:    h.Amount,
		WBalance:  h.WBalance,
		DBalance:  h.DBalance,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
	if h.WAccountID != nil {
		resp.WAccountID = h.WAccountID.String()
	}
	if h.DAccountID != nil {
		resp.DAccountID = h.DAccountID.String()
	}
	return resp
}

func mapEntryToResponse(e *statement.Entry) StatementEntryResponse {
	resp := StatementEntryResponse{
		HistoryID: e.HistoryID.String(),
		Side:      string(e.Side),
		Kind:      string(e.Kind),
		Amount:    e.Amount,
		Balance:   e.Balance,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.Counterparty != nil {
		resp.Counterparty = e.Counterparty.String()
	}
	return resp
}
