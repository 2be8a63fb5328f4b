package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// ErrorKind classifies why a request did not produce a Success.
type ErrorKind int

// Error kinds. The set is closed.
const (
	UnknownFailure ErrorKind = iota
	NetworkFailure
	ClientError
	ServerError
	ParseFailure
	BusinessError
	Canceled
)

// Sentinel errors matched by *Error through errors.Is.
var (
	ErrUnknownFailure = errors.New("unknown error")
	ErrNetworkFailure = errors.New("network failure")
	ErrClientError    = errors.New("client error")
	ErrServerError    = errors.New("server error")
	ErrParseFailure   = errors.New("parse failure")
	ErrBusinessError  = errors.New("business error")
	ErrCanceled       = errors.New("request canceled")

	// ErrUnsupportedMethod is returned by ParseMethod for unknown verbs.
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrMissingField is wrapped when a required envelope field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidURL is wrapped when a request URL is not an absolute http or
	// https URL after the base URL was applied.
	ErrInvalidURL = errors.New("request url must be an absolute http or https url")
)

// String returns the message prefix used for the kind.
func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case NetworkFailure:
		return ErrNetworkFailure
	case ClientError:
		return ErrClientError
	case ServerError:
		return ErrServerError
	case ParseFailure:
		return ErrParseFailure
	case BusinessError:
		return ErrBusinessError
	case Canceled:
		return ErrCanceled
	case UnknownFailure:
		return ErrUnknownFailure
	default:
		return ErrUnknownFailure
	}
}

// Error is the failure variant of Result. StatusCode holds the HTTP status
// for client and server errors, the business code for business errors, and
// is nil otherwise.
type Error struct {
	StatusCode *int
	Message    string
	Kind       ErrorKind
	Cause      error
}

// NewError builds an *Error. Observers use it to short-circuit a request.
func NewError(kind ErrorKind, statusCode *int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message, Kind: kind}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Code returns the status or business code, or 0 when there is none.
func (e *Error) Code() int {
	if e.StatusCode == nil {
		return 0
	}

	return *e.StatusCode
}

const maxSnippetLength = 256

func statusError(statusCode int, body []byte) *Error {
	kind := ClientError
	if statusCode >= http.StatusInternalServerError {
		kind = ServerError
	}

	message := fmt.Sprintf("%s: status %d %s", kind, statusCode, http.StatusText(statusCode))

	if detail := bodyDetail(body); detail != "" {
		message += ", " + detail
	}

	return &Error{StatusCode: &statusCode, Message: message, Kind: kind}
}

// bodyDetail prefers the envelope message of an error body and falls back
// to a trimmed snippet of the raw text.
func bodyDetail(body []byte) string {
	var env rawEnvelope

	if decodeErr := env.decode(body); decodeErr == nil {
		return *env.Message
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxSnippetLength {
		text = text[:maxSnippetLength] + "..."
	}

	return text
}

func businessError(code int, message string) *Error {
	return &Error{StatusCode: &code, Message: message, Kind: BusinessError}
}

func wrapError(kind ErrorKind, err error) *Error {
	return &Error{Message: fmt.Sprintf("%s: %v", kind, err), Kind: kind, Cause: err}
}

// classifyTransportError maps an error raised while exchanging a request.
// Cancellation by the caller wins over every other interpretation. Only
// failures to reach the service or to keep the connection count as network
// failures; anything the transport rejects up front is unknown.
func classifyTransportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return wrapError(Canceled, err)
	}

	cause := err

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	if isUnreachable(cause) {
		return wrapError(NetworkFailure, err)
	}

	return wrapError(UnknownFailure, err)
}

func isUnreachable(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
		netErr net.Error
	)

	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.As(err, &netErr) && netErr.Timeout():
		return true
	default:
		return errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, io.EOF) ||
			errors.Is(err, io.ErrUnexpectedEOF) ||
			errors.Is(err, net.ErrClosed) ||
			errors.Is(err, syscall.ECONNRESET) ||
			errors.Is(err, syscall.ECONNREFUSED)
	}
}
