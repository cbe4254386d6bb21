package errors

import (
	"errors"
	"fmt"
)

// Common error types for the squadhub client
var (
	// Session errors
	ErrNoSession      = errors.New("no active session")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionCleared = errors.New("session cleared")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request errors
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrValidation     = errors.New("validation failed")
	ErrForbidden      = errors.New("forbidden")

	// Lineup errors
	ErrUnknownFormation = errors.New("unknown formation")
	ErrUnknownSlot      = errors.New("unknown slot")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
