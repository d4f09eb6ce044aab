package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation   = errors.New("failed validation")
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrNotPermitted       = errors.New("not permitted")
	ErrAuthentication     = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidThread      = errors.New("invalid thread root")
	ErrInconsistentThread = errors.New("inconsistent thread")
	ErrRateLimited        = errors.New("rate limited")
)

// failedValidation flattens a validation error map into a single error
// wrapping ErrFailedValidation. Keys are sorted so the message is stable.
func (s *service) failedValidation(errorMap map[string]string) error {
	keys := make([]string, 0, len(errorMap))
	for k := range errorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q %s", k, errorMap[k]))
	}
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(parts, "; "))
}
