package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bank-account-ledger/internal/api/middleware"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// kindStatus is the only place ledger error kinds meet HTTP
var kindStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:          http.StatusNotFound,
	shared.KindAuthorization:     http.StatusForbidden,
	shared.KindCredential:        http.StatusUnauthorized,
	shared.KindInsufficientFunds: http.StatusConflict,
	shared.KindValidation:        http.StatusBadRequest,
	shared.KindIntegrity:         http.StatusInternalServerError,
	shared.KindPersistence:       http.StatusInternalServerError,
	shared.KindSystem:            http.StatusServiceUnavailable,
}

// StatusFor maps an error to its response status; unknown errors are System
func StatusFor(err error) int {
	if status, ok := kindStatus[shared.KindOf(err)]; ok {
		return status
	}
	return http.StatusServiceUnavailable
}

// RespondLedgerError writes err as an error response. Client faults carry the
// ledger message; server faults get a generic one and are logged with the cause.
func RespondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	kind := shared.KindOf(err)
	status := StatusFor(err)

	message := "The request could not be completed, please try again later"
	var le *shared.Error
	if errors.As(err, &le) && le.Severity() == shared.SeverityClient {
		message = le.Message
	} else {
		logger.Error("Request failed",
			"kind", kind,
			"status", status,
			"error", err,
			"correlation_id", middleware.GetCorrelationID(c),
		)
	}

	RespondWithError(c, status, string(kind), message)
}
