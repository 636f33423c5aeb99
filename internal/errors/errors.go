// Package errors provides custom error types for the Paisabook API.
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
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidGoogleToken = &AppError{Code: "INVALID_GOOGLE_TOKEN", Message: "Google token could not be verified", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors. Upstream failures (payment gateway, LLM, email) are
// surfaced as ErrUpstream with a generic message; the detail stays in logs.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Resource already exists", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrUpstream       = &AppError{Code: "UPSTREAM_ERROR", Message: "An external service failed", StatusCode: http.StatusInternalServerError}
)

// User & profile errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrProfileNotFound = &AppError{Code: "PROFILE_NOT_FOUND", Message: "Profile not found", StatusCode: http.StatusNotFound}
)

// Category type errors.
var (
	ErrCategoryTypeNotFound  = &AppError{Code: "CATEGORY_TYPE_NOT_FOUND", Message: "Category type not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryType = &AppError{Code: "DUPLICATE_CATEGORY_TYPE", Message: "Category type with this name already exists", StatusCode: http.StatusConflict}
	ErrCategoryTypeInUse     = &AppError{Code: "CATEGORY_TYPE_IN_USE", Message: "Category type is referenced by existing categories", StatusCode: http.StatusConflict}
)

// Category errors, shared by the expense and income stores.
var (
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory    = &AppError{Code: "DUPLICATE_CATEGORY", Message: "Category with this name already exists", StatusCode: http.StatusConflict}
	ErrSubcategoryNotFound  = &AppError{Code: "SUBCATEGORY_NOT_FOUND", Message: "Subcategory not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSubcategory = &AppError{Code: "DUPLICATE_SUBCATEGORY", Message: "Subcategory with this name already exists in this category", StatusCode: http.StatusConflict}
)

// Record errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrIncomeNotFound  = &AppError{Code: "INCOME_NOT_FOUND", Message: "Income not found", StatusCode: http.StatusNotFound}
)

// Payment errors. ErrInvalidSignature is a 400: the caller supplied a
// signature that does not match, which is a client fault, and the
// payment row is left in a terminal failed state.
var (
	ErrPaymentNotFound  = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found", StatusCode: http.StatusNotFound}
	ErrInvalidSignature = &AppError{Code: "INVALID_SIGNATURE", Message: "Invalid signature", StatusCode: http.StatusBadRequest}
)
