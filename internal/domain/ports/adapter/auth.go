package adapter

import "context"

// CredentialVerifier checks operator credentials for the admin surface.
// It returns domain.ErrUnauthorized on mismatch.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}
