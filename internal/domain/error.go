package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPersistence        = errors.New("persistence failure")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrUnconfigured       = errors.New("collaborator not configured")
	ErrUnauthorized       = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many attempts")
	ErrProvider           = errors.New("provider request failed")
)

// PersistenceError carries the store's diagnostic for a failed read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets callers match any store failure with errors.Is(err, ErrPersistence).
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Persistence wraps err as a PersistenceError. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Invalid returns an ErrInvalidArgument carrying a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
