package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
)

var _ repository.EBookRepository = (*ebookRepo)(nil)

type ebookRepo struct {
	pool *pgxpool.Pool
}

func NewEBookRepo(pool *pgxpool.Pool) repository.EBookRepository {
	return &ebookRepo{pool: pool}
}

const ebookColumns = `id, title, author, category, description, file_url, cover_url, pages, created_at`

func (r *ebookRepo) Create(ctx context.Context, tx repository.Tx, b *model.EBook) error {
	const q = `
INSERT INTO ebooks (` + ebookColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.Title, b.Author, b.Category, b.Description, b.FileURL, b.CoverURL, b.Pages, b.CreatedAt,
	)
	return domain.Persistence("insert ebook", err)
}

func (r *ebookRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.EBook, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+ebookColumns+` FROM ebooks WHERE id = $1;`, id)
	if err != nil {
		return nil, domain.Persistence("find ebook", err)
	}
	b, err := scanEBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Persistence("find ebook", err)
	}
	return b, nil
}

func (r *ebookRepo) List(ctx context.Context, tx repository.Tx, category string) ([]*model.EBook, error) {
	const q = `
SELECT ` + ebookColumns + `
  FROM ebooks
 WHERE ($1 = '' OR category = $1)
 ORDER BY created_at DESC, id DESC;
`
	rows, err := queryRows(ctx, r.pool, tx, q, category)
	if err != nil {
		return nil, domain.Persistence("list ebooks", err)
	}
	defer rows.Close()

	out := make([]*model.EBook, 0)
	for rows.Next() {
		b, err := scanEBook(rows)
		if err != nil {
			return nil, domain.Persistence("list ebooks", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list ebooks", err)
	}
	return out, nil
}

func (r *ebookRepo) Update(ctx context.Context, tx repository.Tx, b *model.EBook) error {
	const q = `
UPDATE ebooks
   SET title = $2, author = $3, category = $4, description = $5,
       file_url = $6, cover_url = $7, pages = $8
 WHERE id = $1;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.Title, b.Author, b.Category, b.Description, b.FileURL, b.CoverURL, b.Pages,
	)
	return domain.Persistence("update ebook", err)
}

func (r *ebookRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM ebooks WHERE id = $1;`, id)
	return domain.Persistence("delete ebook", err)
}

func scanEBook(row pgx.Row) (*model.EBook, error) {
	var b model.EBook
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Description, &b.FileURL, &b.CoverURL, &b.Pages, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
