package crud

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Client is an *Error whose Kind is one
// of these values; test with errors.Is.
var (
	// ErrConfig marks invalid construction arguments.
	ErrConfig = errors.New("crud: invalid configuration")
	// ErrValidation marks operation arguments rejected before any request.
	ErrValidation = errors.New("crud: invalid input")
	// ErrUnsupportedMethod marks a gateway call with an unknown HTTP method.
	ErrUnsupportedMethod = errors.New("crud: unsupported method")
	// ErrQuotaExceeded is returned when the service answers 403.
	ErrQuotaExceeded = errors.New("crud: request limit exceeded")
	// ErrRemote is returned for any other non-2xx response.
	ErrRemote = errors.New("crud: remote error")
	// ErrTransport is returned when no response was obtained.
	ErrTransport = errors.New("crud: transport failure")
	// ErrOperation wraps failures that fit none of the kinds above.
	ErrOperation = errors.New("crud: operation failed")
)

const (
	msgConfigRequired = "API Key and API URL are required"
	msgInvalidCreate  = "Invalid input: value must be a number, txHash must be a string"
	msgIDRequired     = "ID is required"
	msgUpdateRequired = "Update data is required"
	msgQuotaExceeded  = "Request limit exceeded. Please recharge credits."
	msgCreateFailed   = "Failed to create item"
	msgGetFailed      = "Failed to retrieve item"
	msgUpdateFailed   = "Failed to update item"
	msgDeleteFailed   = "Failed to delete item"
)

// Error is the error type returned by this package.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Message is the human readable description returned by Error().
	Message string
	// StatusCode is set when the service responded.
	StatusCode int
	// Body holds the raw response body, if any.
	Body []byte
	// Err is the underlying cause, if any.
	Err error
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// QuotaExceeded builds the error reported for a 403 response. Backends other
// than HTTP use it to signal exhausted credits.
func QuotaExceeded() *Error {
	return &Error{Kind: ErrQuotaExceeded, Message: msgQuotaExceeded, StatusCode: 403}
}

// RemoteFailure builds an ErrRemote error as if the service had answered with
// the given status and message.
func RemoteFailure(status int, msg string) *Error {
	return &Error{Kind: ErrRemote, Message: msg, StatusCode: status}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, nil otherwise.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func isRecognized(err error) bool {
	switch KindOf(err) {
	case ErrConfig, ErrValidation, ErrUnsupportedMethod, ErrQuotaExceeded, ErrRemote, ErrTransport, ErrOperation:
		return true
	default:
		return false
	}
}

// wrapOperation passes recognized errors through unchanged and relabels
// everything else with the operation's fallback message.
func wrapOperation(err error, msg string) error {
	if err == nil || isRecognized(err) {
		return err
	}
	return &Error{Kind: ErrOperation, Message: msg, Err: err}
}

// TransportFailure builds the error reported when no response was obtained.
func TransportFailure(err error) *Error {
	return &Error{
		Kind:    ErrTransport,
		Message: fmt.Sprintf("Request failed: %s", causeText(err)),
		Err:     err,
	}
}
