package backend

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every failure returned by Client.
var ErrUnavailable = errors.New("backend: request failed")

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport covers connection and protocol failures.
	KindTransport Kind = iota + 1
	// KindStatus is a response with a non-2xx status code.
	KindStatus
	// KindDecode is a malformed or missing response body.
	KindDecode
	// KindEncode is a request body that could not be serialised; nothing was sent.
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// Error describes a failed API call. It never carries partial data.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("backend: %s: unexpected status %d", e.Op, e.Status)
	}
	if e.Err == nil {
		return fmt.Sprintf("backend: %s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("backend: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrUnavailable for every backend error.
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}

// KindOf returns the kind of a backend error, or zero when err is not one.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}
