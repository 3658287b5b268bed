package repository

import (
	"context"

	"activation-admin/internal/domain/model"
)

type EBookRepository interface {
	Create(ctx context.Context, tx Tx, b *model.EBook) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.EBook, error)
	// List returns books newest first; an empty category means all.
	List(ctx context.Context, tx Tx, category string) ([]*model.EBook, error)
	Update(ctx context.Context, tx Tx, b *model.EBook) error
	Delete(ctx context.Context, tx Tx, id string) error
}
