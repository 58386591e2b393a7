package invoker

import (
	"strings"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

const unknownError = "Unknown error"

// Markers are matched case-insensitively against the error code and
// message, in this order.
var markers = []struct {
	kind     errors.Kind
	contains []string
}{
	{errors.KindAuthentication, []string{"auth", "login", "credential", "unauthorized", "401"}},
	{errors.KindNotFound, []string{"not found", "not_found", "notfound", "404"}},
	{errors.KindRateLimit, []string{"rate limit", "rate_limit", "ratelimit", "429", "resource_exhausted", "too many requests"}},
	{errors.KindValidation, []string{"invalid", "validation"}},
}

func classify(operation string, f failure) *errors.Error {
	message := strings.TrimSpace(f.message)
	if message == "" {
		message = unknownError
	}

	text := strings.ToLower(f.code + " " + message)

	kind := errors.KindOperation

	for _, m := range markers {
		if containsAny(text, m.contains) {
			kind = m.kind

			break
		}
	}

	err := &errors.Error{
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Code:      f.code,
		Err:       f.cause,
	}

	if kind == errors.KindRateLimit {
		err.RetryAfter = f.retryAfter
	}

	return err
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
