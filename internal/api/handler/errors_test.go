package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.NotFound("x"), http.StatusNotFound},
		{shared.Unauthorized("x"), http.StatusForbidden},
		{shared.BadCredential("x"), http.StatusUnauthorized},
		{shared.InsufficientFunds("x"), http.StatusConflict},
		{shared.Invalid("x"), http.StatusBadRequest},
		{shared.Integrity("x"), http.StatusInternalServerError},
		{shared.WrapError(shared.KindPersistence, "x", errors.New("db")), http.StatusInternalServerError},
		{shared.NewError(shared.KindSystem, "x"), http.StatusServiceUnavailable},
		{errors.New("unclassified"), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", shared.NotFound("x")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestRespondLedgerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("client fault keeps its message and is not logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)

		RespondLedgerError(c, logger, shared.InsufficientFunds("insufficient balance for withdrawal"))

		assert.Equal(t, http.StatusConflict, rr.Code)
		resp := decodeResponse(t, rr, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(shared.KindInsufficientFunds), resp.Error.Code)
		assert.Equal(t, "insufficient balance for withdrawal", resp.Error.Message)
		assert.Empty(t, buf.String())
	})

	t.Run("server fault is masked and logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)

		RespondLedgerError(c, logger, shared.WrapError(shared.KindPersistence, "ledger store rejected the operation", errors.New("pq: deadlock detected")))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeResponse(t, rr, nil)
		require.NotNil(t, resp.Error)
		assert.NotContains(t, resp.Error.Message, "deadlock")
		assert.Contains(t, buf.String(), "deadlock detected")
		assert.Contains(t, buf.String(), `"kind":"PERSISTENCE"`)
	})
}
