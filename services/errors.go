package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel categories for every failure the core can produce. Controllers
// map them to HTTP codes with StatusForError; services wrap them with
// context via fmt.Errorf("%w: ...").
var (
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller that does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition marks a state machine violation.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStoreUnavailable marks a transient store failure. Retryable.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEntitlementUnknown means access could not be determined because every
	// access-fact source failed to read. Distinct from "no entitlement":
	// callers must not treat it as a denial. Retryable.
	ErrEntitlementUnknown = errors.New("entitlement unknown")
)

// Retryable reports whether the caller may retry the operation with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrEntitlementUnknown)
}

// StatusForError translates a service error into an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrEntitlementUnknown):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
