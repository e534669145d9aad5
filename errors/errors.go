package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError              ErrorType = "VALIDATION_ERROR"
	NotFoundError                ErrorType = "NOT_FOUND"
	AuthError                    ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError                ErrorType = "DATABASE_ERROR"
	ServerError                  ErrorType = "SERVER_ERROR"
	ForbiddenError               ErrorType = "FORBIDDEN"
	ConflictError                ErrorType = "CONFLICT"
	UserNotFoundError            ErrorType = "USER_NOT_FOUND"
	TripNotFoundError            ErrorType = "TRIP_NOT_FOUND"
	InvalidStatusTransitionError ErrorType = "INVALID_STATUS_TRANSITION"
	UnknownStatusError           ErrorType = "UNKNOWN_STATUS"
	PermissionStoreError         ErrorType = "PERMISSION_STORE_UNAVAILABLE"
	RateLimitError               ErrorType = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped raw error, if any.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status the error maps to.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(code, message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func UserNotFound(id string) *AppError {
	return &AppError{
		Type:       UserNotFoundError,
		Message:    "User not found",
		Detail:     fmt.Sprintf("User ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func TripNotFound(id string) *AppError {
	return &AppError{
		Type:       TripNotFoundError,
		Message:    "Trip not found",
		Detail:     fmt.Sprintf("Trip ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// AlreadyGranted signals a duplicate permission grant tuple. Surfaced as
// a conflict; never retried automatically.
func AlreadyGranted(detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    "Permission already granted",
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidStatusTransition carries the state machine's reason text, which
// lists the legal next states for caller-facing messaging.
func InvalidStatusTransition(current, requested, reason string) *AppError {
	return &AppError{
		Type:       InvalidStatusTransitionError,
		Message:    "Invalid status transition",
		Detail:     reason,
		Code:       fmt.Sprintf("%s->%s", current, requested),
		HTTPStatus: http.StatusBadRequest,
	}
}

func UnknownStatus(status string) *AppError {
	return &AppError{
		Type:       UnknownStatusError,
		Message:    "Unknown trip status",
		Detail:     fmt.Sprintf("Status: %s", status),
		HTTPStatus: http.StatusBadRequest,
	}
}

// PermissionStoreUnavailable maps to a 5xx distinguishable from a
// denial, so operators can tell "denied" apart from "broken".
func PermissionStoreUnavailable(err error) *AppError {
	return &AppError{
		Type:       PermissionStoreError,
		Message:    "Permission store unavailable",
		Detail:     "The permission backend is missing or unreachable",
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, InvalidStatusTransitionError, UnknownStatusError:
		return http.StatusBadRequest
	case NotFoundError, UserNotFoundError, TripNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	case PermissionStoreError:
		return http.StatusServiceUnavailable
	case DatabaseError, ServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
