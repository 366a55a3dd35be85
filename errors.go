package articlemd

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic codes that describe the class of failure.
// Transport layers translate them into their own vocabulary (e.g. HTTP
// status codes).
const (
	ENOCONTENT   = "no_content"   // no usable article content found
	ETIMEOUT     = "timeout"      // fetch exceeded its deadline
	EUNAVAILABLE = "unavailable"  // source could not be fetched
	EINVALID     = "invalid"      // input was malformed or rejected
	ENOTFOUND    = "not_found"    // record does not exist
	EINTERNAL    = "internal"     // unexpected internal failure
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the application error code constants.
	Code string

	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("articlemd error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the error, if it is an application error.
// Non-application errors report EINTERNAL; a nil error reports an empty code.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if it is an application
// error. Non-application errors report a generic message so that internal
// details are not leaked to callers.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
