package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can branch on the class of a
// failure instead of matching on message text.
type ErrorKind string

const (
	// ErrKindValidation marks requests rejected before any ledger call
	// (address mismatch, malformed input, inactive listing).
	ErrKindValidation ErrorKind = "validation"

	// ErrKindInsufficientFunds marks a live balance check failure,
	// rejected before any ledger write.
	ErrKindInsufficientFunds ErrorKind = "insufficient_funds"

	// ErrKindSignatureInvalid marks a forwarder verify() returning false.
	// No gas has been spent when this is returned.
	ErrKindSignatureInvalid ErrorKind = "signature_invalid"

	// ErrKindLedgerCall marks RPC failures, gas estimation failures and
	// contract reverts.
	ErrKindLedgerCall ErrorKind = "ledger_call"

	// ErrKindNotFound marks an ownership query against a token that never
	// existed or has been burned. Reconciliation keys state transitions
	// off this kind.
	ErrKindNotFound ErrorKind = "not_found"

	// ErrKindCriticalSettlement marks a settlement where payment confirmed
	// but delivery failed. The payment hash is always attached and the
	// payment is never rolled back.
	ErrKindCriticalSettlement ErrorKind = "critical_settlement"
)

// Error is the tagged error type used across the marketplace core.
type Error struct {
	Kind    ErrorKind
	Message string

	// PaymentTxHash carries the confirmed payment transaction for
	// critical settlement failures so operators can remediate manually.
	PaymentTxHash string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a tagged error. err may be nil when there is no
// underlying cause.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WrapError creates a tagged error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewCriticalSettlementError creates a critical partial-settlement error
// carrying the already-confirmed payment transaction hash.
func NewCriticalSettlementError(message, paymentTxHash string, err error) *Error {
	return &Error{
		Kind:          ErrKindCriticalSettlement,
		Message:       message,
		PaymentTxHash: paymentTxHash,
		Err:           err,
	}
}

// Kind extracts the error kind, or ErrKindLedgerCall for untagged errors
// that bubbled up from the transport.
func Kind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindLedgerCall
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
