package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/ports/adapter"
)

var _ adapter.CredentialVerifier = (*StaticVerifier)(nil)

// StaticVerifier accepts exactly one configured operator. Emails compare
// case-insensitively and both fields are compared in constant time.
type StaticVerifier struct {
	user [32]byte
	pass [32]byte
}

func NewStaticVerifier(email, password string) *StaticVerifier {
	return &StaticVerifier{
		user: sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email)))),
		pass: sha256.Sum256([]byte(password)),
	}
}

func (v *StaticVerifier) Verify(ctx context.Context, username, password string) error {
	u := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(username))))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(u[:], v.user[:])
	passOK := subtle.ConstantTimeCompare(p[:], v.pass[:])
	if userOK&passOK != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
