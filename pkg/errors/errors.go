package errors

import (
	"errors"
	"fmt"
)

// Code is an error code as carried in the "error" parameter of a callback URL
type Code string

// Wire error codes
const (
	ErrCodeNone             Code = "none"
	ErrCodeNotInstalled     Code = "app_not_installed"
	ErrCodeUnknown          Code = "unknown"
	ErrCodeRejectedByUser   Code = "rejected_by_user"
	ErrCodeInvalidResponse  Code = "invalid_response"
	ErrCodeCoinNotSupported Code = "coin_not_supported"
	ErrCodeSignError        Code = "sign_error"
)

// Internal error codes, never sent or received on the wire
const (
	ErrCodeDuplicateID  Code = "duplicate_id"
	ErrCodeInvalidInput Code = "invalid_input"
)

var messages = map[Code]string{
	ErrCodeNone:             "No Error",
	ErrCodeNotInstalled:     "Trust Wallet is not installed",
	ErrCodeUnknown:          "Unknown Error",
	ErrCodeRejectedByUser:   "User cancelled",
	ErrCodeInvalidResponse:  "Trust SDK response invalid",
	ErrCodeCoinNotSupported: "Coin is not supported",
	ErrCodeSignError:        "Failed to sign",
	ErrCodeDuplicateID:      "Duplicate correlation id",
	ErrCodeInvalidInput:     "Invalid request input",
}

// Message returns the human-readable text for a code.
// Codes the wallet app invents are returned with an empty message.
func Message(code Code) string {
	return messages[code]
}

// IsWire reports whether the code belongs to the wire vocabulary
func (c Code) IsWire() bool {
	switch c {
	case ErrCodeNone, ErrCodeNotInstalled, ErrCodeUnknown, ErrCodeRejectedByUser,
		ErrCodeInvalidResponse, ErrCodeCoinNotSupported, ErrCodeSignError:
		return true
	}
	return false
}

// AppError is a structured bridge error: a code plus a message from the lookup table
type AppError struct {
	Code    Code   `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any AppError carrying the same code
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Predefined errors
var (
	ErrNotInstalled     = FromCode(ErrCodeNotInstalled)
	ErrUnknown          = FromCode(ErrCodeUnknown)
	ErrRejectedByUser   = FromCode(ErrCodeRejectedByUser)
	ErrInvalidResponse  = FromCode(ErrCodeInvalidResponse)
	ErrCoinNotSupported = FromCode(ErrCodeCoinNotSupported)
	ErrSignError        = FromCode(ErrCodeSignError)
	ErrDuplicateID      = FromCode(ErrCodeDuplicateID)
	ErrInvalidInput     = FromCode(ErrCodeInvalidInput)
)

// New creates a new AppError
func New(code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetail creates a new AppError with additional detail
func NewWithDetail(code Code, message, detail string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
	}
}

// FromCode creates an AppError with the table message for code
func FromCode(code Code) *AppError {
	return New(code, Message(code))
}

// CoinNotSupported creates a coin not supported error
func CoinNotSupported(coin string) *AppError {
	return NewWithDetail(ErrCodeCoinNotSupported, Message(ErrCodeCoinNotSupported), fmt.Sprintf("coin: %s", coin))
}

// InvalidInput creates an invalid input error
func InvalidInput(detail string) *AppError {
	return NewWithDetail(ErrCodeInvalidInput, Message(ErrCodeInvalidInput), detail)
}

// DuplicateID creates a duplicate correlation id error
func DuplicateID(id string) *AppError {
	return NewWithDetail(ErrCodeDuplicateID, Message(ErrCodeDuplicateID), fmt.Sprintf("id: %s", id))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
