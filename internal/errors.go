package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeInvalidRange  ErrorType = "INVALID_RANGE"
	ErrorTypeInvalidValue  ErrorType = "INVALID_VALUE"
	ErrorTypeAlreadyClosed ErrorType = "ALREADY_CLOSED"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden     ErrorType = "FORBIDDEN"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeShiftNotFound        ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeTimeLogNotFound      ErrorCode = "TIMELOG_NOT_FOUND"
	ErrCodeBreakNotFound        ErrorCode = "BREAK_NOT_FOUND"
	ErrCodePayRateNotFound      ErrorCode = "PAY_RATE_NOT_FOUND"
	ErrCodePayrollRunNotFound   ErrorCode = "PAYROLL_RUN_NOT_FOUND"
	ErrCodeLeaveNotFound        ErrorCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrCodeSwapNotFound         ErrorCode = "SWAP_REQUEST_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeInvalidRange  ErrorCode = "INVALID_RANGE"
	ErrCodeInvalidValue  ErrorCode = "INVALID_VALUE"
	ErrCodeAlreadyClosed ErrorCode = "ALREADY_CLOSED"
	ErrCodeBreakOpen     ErrorCode = "BREAK_ALREADY_OPEN"

	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbiddenRole      ErrorCode = "FORBIDDEN_ROLE"
)

// AppError is the single error type returned across the core. Type carries the
// error kind; callers switch on it rather than on messages.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on kind and code so that sentinel comparisons work with
// errors.Is even after the error was rebuilt with a different message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewNotFound reports a missing entity, or one that exists but is not owned
// by the acting user.
func NewNotFound(entity string, key interface{}, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    fmt.Sprintf("%s %v not found", entity, key),
		Details:    map[string]interface{}{"entity": entity, "key": key},
		StatusCode: http.StatusNotFound,
	}
}

// NewInvalidRange reports a range whose end comes before its start.
func NewInvalidRange(field string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidRange,
		Code:       ErrCodeInvalidRange,
		Message:    fmt.Sprintf("invalid range: %s", field),
		Details:    map[string]interface{}{"field": field},
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidValue reports an enumerated field outside its allowed set.
func NewInvalidValue(field string, value interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidValue,
		Code:       ErrCodeInvalidValue,
		Message:    fmt.Sprintf("invalid value %q for %s", fmt.Sprint(value), field),
		Details:    map[string]interface{}{"field": field, "value": value},
		StatusCode: http.StatusBadRequest,
	}
}

// NewAlreadyClosed reports an operation the entity's current state forbids.
func NewAlreadyClosed(entity string, key interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeAlreadyClosed,
		Code:       ErrCodeAlreadyClosed,
		Message:    fmt.Sprintf("%s %v is already closed", entity, key),
		Details:    map[string]interface{}{"entity": entity, "key": key},
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrEmailTaken         = NewConflictError("email already registered", ErrCodeEmailTaken)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrForbiddenRole      = NewForbiddenError("role not allowed for this operation", ErrCodeForbiddenRole)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the error kind carried by err, or ErrorTypeInternal for
// errors that did not originate in the core.
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

func IsKind(err error, kind ErrorType) bool {
	return err != nil && KindOf(err) == kind
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
