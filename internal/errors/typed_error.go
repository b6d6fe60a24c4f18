package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeBadRequest          ErrorType = "BAD_REQUEST"
	ErrorTypeInvalidInput        ErrorType = "INVALID_INPUT"
	ErrorTypeUnauthenticated     ErrorType = "UNAUTHENTICATED"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeEmailExists         ErrorType = "EMAIL_EXISTS"
	ErrorTypeRateLimited         ErrorType = "RATE_LIMITED"
	ErrorTypeToken               ErrorType = "TOKEN"
	ErrorTypeProvider            ErrorType = "PROVIDER"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
)

type TypedError interface {
	error
	ErrorType() ErrorType
	Status() int
	Title() string
}

type typedError struct {
	title     string
	message   string
	errorType ErrorType
	status    int
	err       error
}

func (e *typedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *typedError) Message() string      { return e.message }
func (e *typedError) Title() string        { return e.title }
func (e *typedError) ErrorType() ErrorType { return e.errorType }
func (e *typedError) Status() int          { return e.status }
func (e *typedError) Unwrap() error        { return e.err }

// Is matches typed errors by type and title so wrapped copies compare equal to the sentinels.
func (e *typedError) Is(target error) bool {
	t, ok := target.(*typedError)
	if !ok {
		return false
	}
	return e.errorType == t.errorType && e.title == t.title
}

func NewTypedError(title, message string, code ErrorType, status int) *typedError {
	return &typedError{title: title, message: message, errorType: code, status: status}
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func Wrap(sentinel error, err error) error {
	t, ok := sentinel.(*typedError)
	if !ok {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	cp := *t
	cp.err = err
	return &cp
}

func InternalServerError(message string, args ...any) error {
	return &typedError{
		title:     "Internal Server Error",
		message:   "Something went wrong! Please try again",
		errorType: ErrorTypeInternalServerError,
		status:    http.StatusInternalServerError,
		err:       fmt.Errorf(message, args...),
	}
}
