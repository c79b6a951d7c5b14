package library

import (
	"errors"
	"fmt"
)

// GenericFailure is shown when the service gives no usable message.
const GenericFailure = "Request failed"

// ErrorKind classifies how a remote operation failed.
type ErrorKind int

const (
	// KindRejected means the service answered with a non-success status.
	KindRejected ErrorKind = iota
	// KindUnreachable means no response was received (dial, timeout, reset).
	KindUnreachable
	// KindMalformed means a success response could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindUnreachable:
		return "unreachable"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// OperationError is the only error shape the client returns. Message is safe
// to show to staff; the underlying cause is kept for logs.
type OperationError struct {
	Message  string
	Kind     ErrorKind
	Status   int    // HTTP status, zero when no response arrived
	Endpoint string // "METHOD /path"
	cause    error
}

func (e *OperationError) Error() string {
	return e.Message
}

// Unwrap exposes the transport or decode failure behind the message.
func (e *OperationError) Unwrap() error {
	return e.cause
}

// Cause returns the underlying failure formatted for logs.
func (e *OperationError) Cause() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

// AsOperationError normalizes any error into an *OperationError. Errors that
// did not come from the client are wrapped with the generic message.
func AsOperationError(err error) *OperationError {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}
	return &OperationError{Message: GenericFailure, Kind: KindUnreachable, cause: err}
}
