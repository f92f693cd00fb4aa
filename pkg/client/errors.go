package client

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	KindValidation   Kind = iota + 1 // 400
	KindUnauthorized                 // 401
	KindForbidden                    // 403
	KindNotFound                     // 404
	KindServer                       // >= 500
	KindHTTP                         // any other non-2xx status
	KindNetwork                      // no response received
	KindSetup                        // request never sent
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindSetup:
		return "setup"
	}
	return "unknown"
}

// User-facing texts used when a payload carries no usable message.
const (
	MsgUnauthorized   = "Unauthorized. Please login."
	MsgSessionExpired = "Session expired. Please login again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "Resource not found."
	MsgServer         = "Server error. Please try again later."
	MsgNetwork        = "Network error. Please check your connection."
	MsgUnexpected     = "An unexpected error occurred."
)

// ErrNoSession is returned by calls that need a logged-in user.
var ErrNoSession = errors.New("no active session")

// APIError is the classified result of a failed call. It is always returned to
// the caller, also after notifications and session side effects ran.
type APIError struct {
	Kind       Kind
	StatusCode int
	Method     string
	URL        string
	// Messages holds what was (or, when Suppressed, would have been) shown.
	Messages []string
	// Body is the raw response payload, nil when no response arrived.
	Body []byte
	// Suppressed marks a 401 from an enrichment endpoint: no side effects ran.
	Suppressed bool
	// SessionCleared is set when the call tore down the stored session.
	SessionCleared bool
	Err            error
}

func (e *APIError) Error() string {
	msg := e.Message()
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, msg, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// Message joins all messages into one line.
func (e *APIError) Message() string {
	return strings.Join(e.Messages, "; ")
}

// IsKind reports whether err is an *APIError of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

func kindForStatus(status int) Kind {
	switch {
	case status == 400:
		return KindValidation
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServer
	}
	return KindHTTP
}
