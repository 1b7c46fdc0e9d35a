// Package apperr defines the error kinds every handler maps to an HTTP
// response. Wrap lower-level failures with a Kind at the point where the
// caller knows what went wrong; response.Fail does the rest.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of its transport.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindBadRequest
	KindNotFound
	KindPaymentIncomplete
	KindUpstream
)

var kindNames = map[Kind]string{
	KindInternal:          "internal",
	KindUnauthenticated:   "unauthenticated",
	KindForbidden:         "forbidden",
	KindBadRequest:        "bad_request",
	KindNotFound:          "not_found",
	KindPaymentIncomplete: "payment_incomplete",
	KindUpstream:          "upstream",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest, KindPaymentIncomplete:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// kept for logs only.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of kind k.
func New(k Kind, message string) *Error {
	return &Error{Kind: k, Message: message}
}

// Wrap classifies err as kind k with a client-facing message.
func Wrap(k Kind, message string, err error) *Error {
	return &Error{Kind: k, Message: message, Err: err}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func BadRequest(message string) *Error { return New(KindBadRequest, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func PaymentIncomplete(message string) *Error { return New(KindPaymentIncomplete, message) }

func Upstream(message string, err error) *Error { return Wrap(KindUpstream, message, err) }

func Internal(message string, err error) *Error { return Wrap(KindInternal, message, err) }

// Invalid returns a BadRequest carrying per-field messages.
func Invalid(message string, fields map[string]string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Fields: fields}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as k.
func Is(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
