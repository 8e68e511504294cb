package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	errCodeBadRequest         ErrorCode = "bad_request"
	errCodeValidationFailed   ErrorCode = "validation_failed"
	errCodeInsufficientFunds  ErrorCode = "insufficient_funds"
	errCodeSignatureInvalid   ErrorCode = "signature_invalid"
	errCodeUnauthorized       ErrorCode = "unauthorized"
	errCodeForbidden          ErrorCode = "forbidden"
	errCodeNotFound           ErrorCode = "not_found"
	errCodeLedgerError        ErrorCode = "ledger_error"
	errCodeCriticalSettlement ErrorCode = "critical_settlement"
	errCodeInternalError      ErrorCode = "internal_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
	// Critical marks a paid-but-not-delivered settlement
	Critical      bool   `json:"critical,omitempty"`
	PaymentTxHash string `json:"payment_tx_hash,omitempty"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondForbidden sends a 403 Forbidden response
func respondForbidden(c *gin.Context, message string) {
	respondWithError(c, http.StatusForbidden, errCodeForbidden, message)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps a tagged domain error onto an HTTP response.
// Critical settlement failures carry the payment hash so clients and
// operators can trace the stranded funds.
func respondDomainError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		respondInternalError(c, err, "unexpected error")
		return
	}

	switch domainErr.Kind {
	case domain.ErrKindValidation:
		respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, domainErr.Message)
	case domain.ErrKindInsufficientFunds:
		respondWithError(c, http.StatusBadRequest, errCodeInsufficientFunds, domainErr.Message)
	case domain.ErrKindSignatureInvalid:
		respondWithError(c, http.StatusUnauthorized, errCodeSignatureInvalid, domainErr.Message)
	case domain.ErrKindNotFound:
		respondWithError(c, http.StatusNotFound, errCodeNotFound, domainErr.Message)
	case domain.ErrKindCriticalSettlement:
		logger.Error(err, zap.String("payment_tx_hash", domainErr.PaymentTxHash))
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: errorDetail{
				Code:    errCodeCriticalSettlement,
				Message: domainErr.Message,
			},
			Critical:      true,
			PaymentTxHash: domainErr.PaymentTxHash,
		})
	case domain.ErrKindLedgerCall:
		logger.Error(err)
		respondWithError(c, http.StatusBadGateway, errCodeLedgerError, domainErr.Message)
	default:
		respondInternalError(c, err, domainErr.Message)
	}
}
