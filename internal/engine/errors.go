package engine

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// RetryClass indicates whether an error is worth retrying by the caller.
// Nothing in this module retries automatically; the class is surfaced so the
// presentation layer can tell the user whether trying again may help.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"
	RetryClassMaybe        RetryClass = "maybe"
	RetryClassNonRetryable RetryClass = "non_retryable"
)

// EngineError wraps errors with classification metadata.
type EngineError struct {
	Err         error
	Class       RetryClass
	HTTPStatus  int    // HTTP status code if applicable
	RetryAfter  string // Retry-After header value if present
	IsRateLimit bool
	IsTimeout   bool
	IsNetwork   bool
	IsAuth      bool
	IsQuota     bool
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("engine error: %s", e.Class)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ClassifyLLMError classifies an error from an LLM provider call.
func ClassifyLLMError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Class
	}

	if status, _ := StatusFromMessage(err); status != 0 {
		class, _ := classifyStatus(status)
		return class
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case containsAny(errStr, "rate limit", "too many requests"):
		return RetryClassRetryable
	case containsAny(errStr, "internal server error", "bad gateway", "service unavailable", "gateway timeout"):
		return RetryClassRetryable
	case containsAny(errStr, "context deadline exceeded", "deadline exceeded"):
		return RetryClassMaybe
	case containsAny(errStr, "timeout", "connection reset", "connection refused",
		"no such host", "network", "dns", "temporary failure"):
		return RetryClassRetryable
	case containsAny(errStr, "context length", "token limit", "maximum context length"):
		return RetryClassMaybe
	}

	// Auth, bad request, quota and safety refusals all land here.
	return RetryClassNonRetryable
}

// classifyStatus maps a known HTTP status to a retry class. Zero means unknown.
func classifyStatus(status int) (RetryClass, bool) {
	switch {
	case status == 0:
		return "", false
	case status == http.StatusTooManyRequests, status >= 500:
		return RetryClassRetryable, true
	case status == http.StatusRequestTimeout:
		return RetryClassMaybe, true
	}
	return RetryClassNonRetryable, true
}

// WrapLLMError wraps an LLM provider error with classification metadata.
// A known httpStatus decides the class; the message is only consulted when
// the status is zero.
func WrapLLMError(err error, httpStatus int, retryAfter string) error {
	if err == nil {
		return nil
	}

	class, ok := classifyStatus(httpStatus)
	if !ok {
		class = ClassifyLLMError(err)
	}

	return &EngineError{
		Err:         err,
		Class:       class,
		HTTPStatus:  httpStatus,
		RetryAfter:  retryAfter,
		IsRateLimit: httpStatus == http.StatusTooManyRequests,
		IsTimeout:   httpStatus == http.StatusGatewayTimeout || httpStatus == http.StatusRequestTimeout,
		IsNetwork:   httpStatus == 0 || httpStatus >= 500,
		IsAuth:      httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden,
		IsQuota:     httpStatus == http.StatusPaymentRequired,
	}
}

// IsAuthError reports whether err carries a provider authentication failure.
func IsAuthError(err error) bool {
	var engineErr *EngineError
	return errors.As(err, &engineErr) && engineErr.IsAuth
}

var (
	statusCodePattern = regexp.MustCompile(`(?i)status(?:[ _]?code)?[:=]?\s*(\d{3})\b`)
	bareStatusPattern = regexp.MustCompile(`\b(401|403|429|400|402|500|502|503|504)\b`)
)

// StatusFromMessage recovers an HTTP status and Retry-After value from a provider
// error message. Providers should prefer the typed SDK error; this is the
// fallback when none is available. An explicit "status code: N" wins over a
// bare code, and codes must stand alone so digits inside keys or IDs never match.
func StatusFromMessage(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	errStr := err.Error()
	var httpStatus int
	if m := statusCodePattern.FindStringSubmatch(errStr); m != nil {
		httpStatus, _ = strconv.Atoi(m[1])
	} else if m := bareStatusPattern.FindStringSubmatch(errStr); m != nil {
		httpStatus, _ = strconv.Atoi(m[1])
	}

	var retryAfter string
	lower := strings.ToLower(errStr)
	for _, marker := range []string{"retry-after", "retry after"} {
		if idx := strings.Index(lower, marker); idx != -1 {
			if parts := strings.Fields(strings.TrimLeft(errStr[idx+len(marker):], ": ")); len(parts) > 0 {
				retryAfter = parts[0]
			}
			break
		}
	}

	return httpStatus, retryAfter
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
