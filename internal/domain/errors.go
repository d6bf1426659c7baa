package domain

import (
	"errors"
	"fmt"
)

// ErrCode classifies the recoverable failures a mutation can report. Every
// one of these is returned as a value to the boundary layer and decided
// there; none is fatal to the process.
type ErrCode string

const (
	CodePermissionDenied ErrCode = "PERMISSION_DENIED"
	CodeDuplicate        ErrCode = "DUPLICATE"
	CodeNotFound         ErrCode = "NOT_FOUND"
	CodeMalformedData    ErrCode = "MALFORMED_DATA"
)

// Error is a typed domain error carrying a classification code.
type Error struct {
	Code    ErrCode
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrPermission(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Message: msg}
}

func ErrDuplicate(msg string) *Error {
	return &Error{Code: CodeDuplicate, Message: msg}
}

func ErrNotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func ErrMalformed(msg string) *Error {
	return &Error{Code: CodeMalformedData, Message: msg}
}

// CodeOf returns the classification of err, or an empty code for errors that
// did not originate in the domain layer.
func CodeOf(err error) ErrCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsPermissionDenied reports whether err is a role/ownership violation.
func IsPermissionDenied(err error) bool { return CodeOf(err) == CodePermissionDenied }

// IsDuplicate reports whether err is a duplicate-roster-id failure.
func IsDuplicate(err error) bool { return CodeOf(err) == CodeDuplicate }

// IsNotFound reports whether err refers to an absent person or record.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }
