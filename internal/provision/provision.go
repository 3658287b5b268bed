// Package provision models optional collaborators that are decided once at startup.
package provision

import (
	"fmt"

	"activation-admin/internal/domain"
)

// Setup is either Configured(client) or Unconfigured(reason). Build it once in the
// bootstrap and hand it to the components that depend on the collaborator.
type Setup[T any] struct {
	client T
	reason string
	ok     bool
}

// Configured wraps a ready client.
func Configured[T any](client T) Setup[T] {
	return Setup[T]{client: client, ok: true}
}

// Unconfigured records why the collaborator is absent.
func Unconfigured[T any](reason string) Setup[T] {
	return Setup[T]{reason: reason}
}

// Get returns the client, or an error wrapping domain.ErrUnconfigured with the reason.
func (s Setup[T]) Get() (T, error) {
	if !s.ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", domain.ErrUnconfigured, s.reason)
	}
	return s.client, nil
}

func (s Setup[T]) IsConfigured() bool { return s.ok }

// Reason is empty for a configured setup.
func (s Setup[T]) Reason() string { return s.reason }
