// Package errors provides custom error types for niveshak.
// Everything the pricing core and the HTTP layer return to a caller should be an
// AppError so that responses are consistent and never leak internal details.
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

// Is reports whether target is an AppError with the same code, so that wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Pricing errors.
var (
	ErrInvalidTicker     = &AppError{Code: "INVALID_TICKER", Message: "Ticker format is not recognised", StatusCode: http.StatusBadRequest}
	ErrPriceNotFound     = &AppError{Code: "PRICE_NOT_FOUND", Message: "No price source returned a value", StatusCode: http.StatusNotFound}
	ErrRateLimited       = &AppError{Code: "RATE_LIMITED", Message: "Price source rate limit exceeded", StatusCode: http.StatusTooManyRequests}
	ErrSourceUnavailable = &AppError{Code: "SOURCE_UNAVAILABLE", Message: "Price source is unavailable", StatusCode: http.StatusBadGateway}
)

// Holding errors.
var (
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "No buy transaction found for ticker", StatusCode: http.StatusNotFound}
	ErrReturnsNotFound    = &AppError{Code: "RETURNS_NOT_FOUND", Message: "No return series recorded for ticker", StatusCode: http.StatusNotFound}
)

// Pipeline errors.
var (
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)
