package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a provider failure. The provider reports failures as
// free-form message strings; they are translated into kinds here so the rest
// of the app never matches on provider text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidCredentials
	KindEmailNotConfirmed
	KindUserExists
	KindInvalidToken
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindEmailNotConfirmed:
		return "email not confirmed"
	case KindUserExists:
		return "user already registered"
	case KindInvalidToken:
		return "invalid token"
	case KindRateLimited:
		return "rate limited"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// KindOf extracts the kind from a provider error, or KindUnknown for any
// other error.
func KindOf(err error) ErrorKind {
	var providerErr *Error
	if errors.As(err, &providerErr) {
		return providerErr.Kind
	}
	return KindUnknown
}

// classify maps a provider error message and status code to a kind.
func classify(statusCode int, message string) ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "invalid login credentials"):
		return KindInvalidCredentials
	case strings.Contains(msg, "email not confirmed"):
		return KindEmailNotConfirmed
	case strings.Contains(msg, "already registered"), strings.Contains(msg, "already been registered"):
		return KindUserExists
	case statusCode == 401:
		return KindInvalidToken
	case statusCode == 429:
		return KindRateLimited
	default:
		return KindUnknown
	}
}
