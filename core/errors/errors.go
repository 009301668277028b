package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrUpdateFailed       ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"

	// Authentication
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrTokenRevoked               ErrorCode = "TOKEN_REVOKED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrLoginBlocked               ErrorCode = "LOGIN_BLOCKED"

	// Authorization and sharing
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrInviteExpired      ErrorCode = "INVITE_EXPIRED"
	ErrProtectedCalendar  ErrorCode = "PROTECTED_CALENDAR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError is the error type returned by services. Controllers map Code to an HTTP status.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(ErrForbidden, message, nil)
}

func InvalidInput(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, nil)
}

func Conflict(message string) *AppError {
	return NewAppError(ErrConflict, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrInternalServer, message, err)
}
