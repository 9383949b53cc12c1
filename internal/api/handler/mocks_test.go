package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bank-account-ledger/internal/api/middleware"
	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/statement"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPrincipal = "user-1"

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) OpenAccount(ctx context.Context, req ledger.OpenAccountRequest, principalID string) (*account.Account, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, id uuid.UUID, principalID string) (*account.Account, error) {
	args := m.Called(ctx, id, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, principalID string) ([]*account.Account, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountService) GetHistory(ctx context.Context, id uuid.UUID, direction history.Direction, principalID string) ([]*history.View, error) {
	args := m.Called(ctx, id, direction, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.View), args.Error(1)
}

func (m *MockAccountService) GetStatement(ctx context.Context, id uuid.UUID, principalID string, page, perPage int) ([]*statement.Entry, int64, error) {
	args := m.Called(ctx, id, principalID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*statement.Entry), args.Get(1).(int64), args.Error(2)
}

type MockMovementService struct {
	mock.Mock
}

func (m *MockMovementService) Withdraw(ctx context.Context, req ledger.WithdrawRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func (m *MockMovementService) Deposit(ctx context.Context, req ledger.DepositRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func (m *MockMovementService) Transfer(ctx context.Context, req ledger.TransferRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestRouter authenticates every request as principal unless it is empty
func setupTestRouter(principal string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	if principal != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.PrincipalKey, principal)
			c.Next()
		})
	}
	return r
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals the envelope and re-decodes its data into out
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	if out != nil {
		require.NotNil(t, resp.Data, "'data' field should not be nil")
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp
}
