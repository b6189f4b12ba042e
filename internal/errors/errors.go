// Package errors provides custom error types for the Construction ERP API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied. Insufficient permissions", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUser = &AppError{Code: "DUPLICATE_USER", Message: "Username or email already exists", StatusCode: http.StatusConflict}
)

// Project errors.
var (
	ErrProjectNotFound = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
)

// Ledger errors.
var (
	// ErrAccountMissing means a seeded chart-of-accounts entry is absent.
	// This is a configuration fault, not a user error.
	ErrAccountMissing = &AppError{Code: "ACCOUNT_MISSING", Message: "Required ledger account is not configured", StatusCode: http.StatusInternalServerError}
	// ErrPostingFailed means a ledger posting could not complete; the
	// enclosing transaction rolled back and the ledger is unchanged.
	ErrPostingFailed = &AppError{Code: "POSTING_FAILED", Message: "Ledger posting could not be completed", StatusCode: http.StatusInternalServerError}
)

// Invoice errors.
var (
	ErrInvoiceNotFound        = &AppError{Code: "INVOICE_NOT_FOUND", Message: "Invoice not found", StatusCode: http.StatusNotFound}
	ErrDuplicateInvoiceNumber = &AppError{Code: "DUPLICATE_INVOICE_NUMBER", Message: "An invoice with this number already exists", StatusCode: http.StatusConflict}
	ErrInvoiceAlreadyPaid     = &AppError{Code: "INVOICE_ALREADY_PAID", Message: "A paid invoice cannot change status", StatusCode: http.StatusConflict}
)
