package llm

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a non-2xx completion response
type ErrorKind string

const (
	KindAuth          ErrorKind = "auth"
	KindRateLimit     ErrorKind = "rate_limit"
	KindQuota         ErrorKind = "quota"
	KindBadRequest    ErrorKind = "bad_request"
	KindModelNotFound ErrorKind = "model_not_found"
	KindServer        ErrorKind = "server"
	KindUnknown       ErrorKind = "unknown"
)

// StatusError is a completion call rejected by the provider
type StatusError struct {
	StatusCode int
	Kind       ErrorKind
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: status=%d", e.Kind, e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, " message=%s", e.Message)
	}
	if e.RetryAfter > 0 {
		fmt.Fprintf(&b, " retry_after=%ds", int(e.RetryAfter.Seconds()))
	}
	return b.String()
}

// classifyStatus maps a provider error response to a StatusError
func classifyStatus(resp *http.Response, body []byte) *StatusError {
	e := &StatusError{StatusCode: resp.StatusCode, Kind: KindUnknown}
	if gjson.ValidBytes(body) {
		e.Message = gjson.GetBytes(body, "error.message").String()
		e.Code = gjson.GetBytes(body, "error.code").String()
		if e.Code == "" {
			e.Code = gjson.GetBytes(body, "error.type").String()
		}
	}
	if e.Message == "" {
		e.Message = truncate(strings.TrimSpace(string(body)), 300)
	}

	switch sc := resp.StatusCode; {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		e.Kind = KindAuth
	case sc == http.StatusTooManyRequests:
		if strings.Contains(e.Code, "quota") {
			e.Kind = KindQuota
		} else {
			e.Kind = KindRateLimit
			if secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil && secs > 0 {
				e.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	case sc == http.StatusPaymentRequired:
		e.Kind = KindQuota
	case sc == http.StatusNotFound && strings.Contains(strings.ToLower(e.Message), "model"):
		e.Kind = KindModelNotFound
	case sc >= 400 && sc < 500:
		e.Kind = KindBadRequest
	case sc >= 500:
		e.Kind = KindServer
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
