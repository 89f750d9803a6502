package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Kind classifies a failed operation for presentation and retry decisions.
type Kind string

const (
	// KindValidation marks a client-side precondition failure; the request
	// never reaches the wire.
	KindValidation Kind = "validation"
	// KindUnauthenticated marks operations attempted without a stored session.
	KindUnauthenticated Kind = "unauthenticated"
	// KindNetwork marks transport failures where no response was received.
	KindNetwork Kind = "network"
	// KindServer marks responses that carried a structured failure payload.
	KindServer Kind = "server"
	// KindParse marks 2xx responses whose body is structurally unusable.
	KindParse Kind = "parse"
	// KindUnknown covers everything else.
	KindUnknown Kind = "unknown"
)

// FallbackMessage is surfaced when a failure carries no usable text.
const FallbackMessage = "Request failed"

// Error is the single error shape the session layer exposes to callers.
type Error struct {
	Kind    Kind
	Message string
}

// New constructs a classified error with the supplied message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: strings.TrimSpace(message)}
}

// Newf constructs a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports kind equality so callers can match with errors.Is against a
// zero-message sentinel.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// StatusError is produced by the backend client for every non-2xx response.
// Detail and Message hold the corresponding body fields only when the backend
// sent them as strings; non-string values are dropped rather than stringified.
type StatusError struct {
	StatusCode int
	Detail     string
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("http %d", e.StatusCode)
	}
}

// Normalize maps an arbitrary operation failure onto the taxonomy. Precedence,
// first match wins:
//
//  1. no response received (transport error, timeout, cancellation) → Network
//  2. response body carried a string "detail" field → Server with that string
//  3. response body carried a string "message" field → Server with that string
//  4. the error itself carries text → Unknown with that text
//  5. otherwise → Unknown with FallbackMessage
//
// Errors already classified by this package pass through unchanged.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if isTransportFailure(err) {
		return New(KindNetwork, err.Error())
	}

	var status *StatusError
	if errors.As(err, &status) {
		if status.Detail != "" {
			return New(KindServer, status.Detail)
		}
		if status.Message != "" {
			return New(KindServer, status.Message)
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return New(KindUnknown, msg)
	}
	return New(KindUnknown, FallbackMessage)
}

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
