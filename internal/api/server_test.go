package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bank-account-ledger/internal/api/middleware"
	"github.com/bank-account-ledger/internal/api/service"
	"github.com/bank-account-ledger/internal/config"
	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

// stubAccounts only answers ListAccounts; other methods panic through the nil interface
type stubAccounts struct {
	service.AccountService
	seen string
}

func (s *stubAccounts) ListAccounts(_ context.Context, principalID string) ([]*account.Account, error) {
	s.seen = principalID
	return []*account.Account{}, nil
}

type stubMovements struct {
	service.MovementService
}

func testConfig() *config.Config {
	return &config.Config{
		Application: config.ApplicationConfig{Env: "test", Name: "ledger"},
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
		},
		Auth: config.AuthConfig{JWTSecret: testSecret, Issuer: "bank-session"},
	}
}

func newTestServer(accounts service.AccountService) *Server {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(logger, testConfig(), accounts, &stubMovements{})
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "bank-session",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(&stubAccounts{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))
}

func TestServer_AccountRoutesRequireToken(t *testing.T) {
	accounts := &stubAccounts{}
	srv := newTestServer(accounts)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/accounts"},
		{http.MethodGet, "/api/v1/accounts"},
		{http.MethodGet, "/api/v1/accounts/3f0c6a52-7c1e-4a43-9a35-3d7c2b1f4e10"},
		{http.MethodGet, "/api/v1/accounts/3f0c6a52-7c1e-4a43-9a35-3d7c2b1f4e10/history"},
		{http.MethodGet, "/api/v1/accounts/3f0c6a52-7c1e-4a43-9a35-3d7c2b1f4e10/statement"},
		{http.MethodPost, "/api/v1/accounts/withdraw"},
		{http.MethodPost, "/api/v1/accounts/deposit"},
		{http.MethodPost, "/api/v1/accounts/transfer"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
	assert.Empty(t, accounts.seen)
}

func TestServer_TokenSubjectIsThePrincipal(t *testing.T) {
	accounts := &stubAccounts{}
	srv := newTestServer(accounts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", bearer(t, "user-42"))
	req.Header.Set(middleware.CorrelationIDHeader, "corr-123")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-42", accounts.seen)
	assert.Equal(t, "corr-123", rr.Header().Get(middleware.CorrelationIDHeader))
	assert.Contains(t, rr.Body.String(), `"correlation_id":"corr-123"`)
}

func TestServer_StopWithoutStart(t *testing.T) {
	srv := newTestServer(&stubAccounts{})
	assert.NoError(t, srv.Stop(context.Background()))
}
