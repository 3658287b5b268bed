package repository

import (
	"context"
	"time"

	"activation-admin/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
// Every method is a single statement against the store.
type ActivationCodeRepository interface {
	// Create inserts a new code.
	Create(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// FindByID returns domain.ErrNotFound when no row matches.
	FindByID(ctx context.Context, tx Tx, id string) (*model.ActivationCode, error)
	// List returns codes ordered by created_at DESC, id DESC.
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.ActivationCode, error)
	// Search matches query case-insensitively as a substring of phone, customer name or email.
	Search(ctx context.Context, tx Tx, query string, limit int) ([]*model.ActivationCode, error)
	// ResetDevice clears device_id, used and used_at. A missing id is not an error.
	ResetDevice(ctx context.Context, tx Tx, id string) error
	// Delete removes the row. A missing id is not an error.
	Delete(ctx context.Context, tx Tx, id string) error

	Count(ctx context.Context, tx Tx) (int, error)
	CountUsed(ctx context.Context, tx Tx) (int, error)
	CountCreatedSince(ctx context.Context, tx Tx, since time.Time) (int, error)
	// CountCreatedByDay buckets codes created in [from, to) by UTC calendar day (YYYY-MM-DD).
	CountCreatedByDay(ctx context.Context, tx Tx, from, to time.Time) (map[string]int, error)
}
