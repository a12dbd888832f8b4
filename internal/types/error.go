package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	// validation failures
	InsufficientUniqueTraders ErrorCode = "INSUFFICIENT_UNIQUE_TRADERS"
	InvalidTradePrice         ErrorCode = "INVALID_TRADE_PRICE"
	FlashLoanDetected         ErrorCode = "FLASH_LOAN_DETECTED"
	NFTFloorTooLow            ErrorCode = "NFT_FLOOR_TOO_LOW"
	GovernanceNotApproved     ErrorCode = "GOVERNANCE_NOT_APPROVED"
	InvalidRewardParameters   ErrorCode = "INVALID_REWARD_PARAMETERS"
	OwnerMismatch             ErrorCode = "OWNER_MISMATCH"
	AlreadyInitialized        ErrorCode = "ALREADY_INITIALIZED"
	NotInitialized            ErrorCode = "NOT_INITIALIZED"
	InvalidArgument           ErrorCode = "INVALID_ARGUMENT"

	// defects
	ArithmeticOverflow ErrorCode = "ARITHMETIC_OVERFLOW"

	// external dependencies
	OracleError       ErrorCode = "ORACLE_ERROR"
	NegativePrice     ErrorCode = "NEGATIVE_PRICE"
	ConversionError   ErrorCode = "CONVERSION_ERROR"
	InsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	TransferRejected  ErrorCode = "TRANSFER_REJECTED"
	StaleRecord       ErrorCode = "STALE_RECORD"

	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error is the single failure type surfaced by the protocol. Every rejected request
// carries one, so callers can branch on ErrorCode without matching strings.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

// NewErrorWithMsg builds an Error from a formatted message using the default status for the code.
func NewErrorWithMsg(errorCode ErrorCode, format string, args ...any) *Error {
	return NewError(errorCode.StatusCode(), errorCode, fmt.Errorf(format, args...))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.ErrorCode.String()
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any *Error against a bare ErrorCode or another *Error with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.ErrorCode == t
	case *Error:
		return e.ErrorCode == t.ErrorCode
	}
	return false
}

// ErrorCode satisfies error so that it can be used as a target of errors.Is.
func (c ErrorCode) Error() string {
	return string(c)
}

// StatusCode maps a code to the status reported to callers.
func (c ErrorCode) StatusCode() int {
	switch c {
	case ArithmeticOverflow, InternalServiceError:
		return http.StatusInternalServerError
	case OracleError, NegativePrice, ConversionError:
		return http.StatusBadGateway
	case StaleRecord, AlreadyInitialized:
		return http.StatusConflict
	case OwnerMismatch:
		return http.StatusForbidden
	case NotInitialized:
		return http.StatusPreconditionFailed
	case InsufficientFunds, TransferRejected:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadRequest
	}
}

// CodeOf returns the ErrorCode carried by err, or InternalServiceError for foreign errors.
func CodeOf(err error) ErrorCode {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.ErrorCode
	}
	return InternalServiceError
}
