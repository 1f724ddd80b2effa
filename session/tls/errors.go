package tls

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies session-level failures.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	// KindInvalidUsage reports a misuse of the public API, e.g. a second
	// connect while one is outstanding.
	KindInvalidUsage
	// KindNotOpen reports a connect attempted on an unusable transport.
	KindNotOpen
	// KindBadArgs reports a transport missing a required capability.
	KindBadArgs
	// KindInvalidState reports an application write on an errored session.
	KindInvalidState
	// KindSslError wraps any engine-reported protocol failure.
	KindSslError
	// KindEndOfFile reports a local close.
	KindEndOfFile
	// KindEarlyDataRejected reports 0-RTT data that was rejected and not,
	// or not safely, resendable.
	KindEarlyDataRejected
	// KindTimeout reports an expired handshake timer.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidUsage:
		return "invalid usage"
	case KindNotOpen:
		return "not open"
	case KindBadArgs:
		return "bad args"
	case KindInvalidState:
		return "invalid state"
	case KindSslError:
		return "ssl error"
	case KindEndOfFile:
		return "end of file"
	case KindEarlyDataRejected:
		return "early data rejected"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// SessionError ties an ErrorKind to its underlying cause, if any.
type SessionError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *SessionError) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, message string) *SessionError {
	return &SessionError{Kind: kind, Message: message}
}

// wrapSsl converts an engine-reported failure into a KindSslError session
// error. Errors that already carry a kind pass through unchanged.
func wrapSsl(err error) error {
	if se := new(SessionError); errors.As(err, &se) {
		return err
	}
	return &SessionError{Kind: KindSslError, Message: "engine reported failure", Cause: err}
}

// IsKind reports whether err carries the given session error kind.
func IsKind(err error, kind ErrorKind) bool {
	se := new(SessionError)
	return errors.As(err, &se) && se.Kind == kind
}
