// Package errors defines the structured error type shared across the
// service, plus HTTP response helpers. The caption-specific taxonomy lives
// here: invalid input is terminal, upstream-empty and upstream-failure move
// on to the next candidate, strategy-exhausted moves on to the next
// strategy, and all-strategies-exhausted is what callers finally see.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory classifies who is at fault for an error.
type ErrorCategory string

const (
	CategoryClient   ErrorCategory = "client"
	CategoryServer   ErrorCategory = "server"
	CategoryExternal ErrorCategory = "external"
)

// Error codes.
const (
	// Client errors (4xx)
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"

	// Upstream retrieval errors
	CodeUpstreamEmpty          = "UPSTREAM_EMPTY"
	CodeUpstreamFailure        = "UPSTREAM_FAILURE"
	CodeStrategyExhausted      = "STRATEGY_EXHAUSTED"
	CodeAllStrategiesExhausted = "CAPTIONS_UNAVAILABLE"
)

// AppError is a structured application error.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Category   ErrorCategory  `json:"-"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches structured details to the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause sets the underlying cause of the error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// New creates an AppError.
func New(code, message string, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Category:   category,
		HTTPStatus: httpStatus,
	}
}

// Client error constructors

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, CategoryClient, http.StatusBadRequest)
}

func BadRequest(message string) *AppError {
	return New(CodeInvalidRequest, message, CategoryClient, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, CategoryClient, http.StatusUnauthorized)
}

// Server error constructors

func InternalError(message string) *AppError {
	return New(CodeInternalError, message, CategoryServer, http.StatusInternalServerError)
}

// Upstream retrieval constructors

// UpstreamEmpty marks a candidate that completed but yielded zero usable
// cues. The owning strategy moves on to its next candidate.
func UpstreamEmpty(detail string) *AppError {
	return New(CodeUpstreamEmpty, detail, CategoryExternal, http.StatusBadGateway)
}

// UpstreamFailure marks a candidate that failed outright: a non-success
// status or a transport error.
func UpstreamFailure(message string) *AppError {
	return New(CodeUpstreamFailure, message, CategoryExternal, http.StatusBadGateway)
}

// StrategyExhausted marks a whole strategy whose candidate space ran out
// without a usable result. The orchestrator moves on to the next strategy.
func StrategyExhausted(strategy, message string) *AppError {
	return New(CodeStrategyExhausted, fmt.Sprintf("%s: %s", strategy, message), CategoryExternal, http.StatusBadGateway)
}

// AllStrategiesExhausted is the terminal retrieval error: every strategy
// failed. It carries the last underlying error and the full attempt trace
// so callers can tell "no captions exist" apart from "everything is broken".
func AllStrategiesExhausted(cause error, attempts []string) *AppError {
	msg := "no captions could be retrieved by any method"
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return New(CodeAllStrategiesExhausted, msg, CategoryExternal, http.StatusBadGateway).
		WithDetails(map[string]any{"tried_order": attempts}).
		WithCause(cause)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// IsClientError reports whether err is a client-category AppError.
func IsClientError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Category == CategoryClient
}

// ErrorResponse is the JSON error envelope returned to clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the client-visible error details.
type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// WriteError writes an error response. Unknown error types are wrapped as
// internal errors so their details never leak to clients.
func WriteError(w http.ResponseWriter, requestID string, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("an unexpected error occurred").WithCause(err)
	}

	resp := ErrorResponse{
		Error: ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: requestID,
			Details:   appErr.Details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set(RequestIDHeader, requestID)
	}
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON response with the request ID header.
func WriteJSON(w http.ResponseWriter, requestID string, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set(RequestIDHeader, requestID)
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
