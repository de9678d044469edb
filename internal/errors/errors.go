package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so callers can test against
// the sentinels below with errors.Is regardless of message or cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidArchive  = "INVALID_ARCHIVE"
	CodeHeaderNotFound  = "HEADER_NOT_FOUND"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidArchive = New(CodeInvalidArchive, "invalid workbook archive")
	ErrHeaderNotFound = New(CodeHeaderNotFound, "header row not found")
)

// InvalidArchive reports bytes that are not a readable workbook container,
// or a container missing a mandatory part.
func InvalidArchive(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeInvalidArchive,
		Message: message,
		Cause:   cause,
	}
}

// HeaderNotFound reports a data sheet without an Employee/Rank header row.
func HeaderNotFound(sheet string) *AppError {
	msg := "could not find header row (expected 'Employee' and 'Rank')"
	if sheet != "" {
		msg = fmt.Sprintf("%s in sheet %q", msg, sheet)
	}
	return New(CodeHeaderNotFound, msg)
}

// IsInputError reports whether err is a property of the uploaded workbook,
// as opposed to a fault of the service.
func IsInputError(err error) bool {
	return stderrors.Is(err, ErrInvalidArchive) || stderrors.Is(err, ErrHeaderNotFound)
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func PayloadTooLarge(limit int64) *AppError {
	return New(CodePayloadTooLarge, fmt.Sprintf("file exceeds the %d byte upload limit", limit))
}
