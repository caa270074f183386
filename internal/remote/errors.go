package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindTransient Kind = iota
	KindAuth
	KindRateLimited
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "transient"
	}
}

// APIError is a failed remote call with the context of the operation that made it.
type APIError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Kind       Kind
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: status %d (%s)", e.Op, e.Method, e.URL, e.StatusCode, e.Kind)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

var invalidTokenMarkers = []string{
	"invalid token",
	"token is invalid",
	"token expired",
	"invalid oauth token",
	"invalid_token",
}

// Classify maps a response status and body to an error kind.
func Classify(status int, body string) Kind {
	lower := strings.ToLower(body)
	for _, m := range invalidTokenMarkers {
		if strings.Contains(lower, m) {
			return KindAuth
		}
	}
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusRequestTimeout:
		return KindTransient
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindTransient
	}
}

func kindOf(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func IsAuth(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindAuth
}

func IsRateLimited(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindRateLimited
}

func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

// IsRetryable reports whether the uniform retry layer should try the call again.
// Network errors, timeouts, 5xx and 429 are retryable; auth is handled by the token layer.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if k, ok := kindOf(err); ok {
		return k == KindTransient || k == KindRateLimited
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) || isConnReset(err)
}

func isConnReset(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "connection reset") || strings.Contains(s, "connection refused")
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		return s[:512]
	}
	return s
}
