package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

const activationCodeColumns = `id, phone, order_id, customer_name, customer_email, device_id, used, used_at, created_at`

func (r *activationCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes (` + activationCodeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.Phone, code.OrderID, code.CustomerName, code.CustomerEmail,
		code.DeviceID, code.Used, code.UsedAt, code.CreatedAt,
	)
	return domain.Persistence("insert activation code", err)
}

func (r *activationCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ActivationCode, error) {
	const q = `SELECT ` + activationCodeColumns + ` FROM activation_codes WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, domain.Persistence("find activation code", err)
	}
	ac, err := scanActivationCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Persistence("find activation code", err)
	}
	return ac, nil
}

// List pages through codes newest first. The id tie-break keeps pages disjoint
// when several codes share a created_at.
func (r *activationCodeRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.ActivationCode, error) {
	const q = `
SELECT ` + activationCodeColumns + `
  FROM activation_codes
 ORDER BY created_at DESC, id DESC
 OFFSET $1 LIMIT $2;
`
	return r.selectMany(ctx, tx, "list activation codes", q, offset, limit)
}

func (r *activationCodeRepo) Search(ctx context.Context, tx repository.Tx, query string, limit int) ([]*model.ActivationCode, error) {
	const q = `
SELECT ` + activationCodeColumns + `
  FROM activation_codes
 WHERE phone ILIKE $1 ESCAPE '\'
    OR customer_name ILIKE $1 ESCAPE '\'
    OR customer_email ILIKE $1 ESCAPE '\'
 ORDER BY created_at DESC, id DESC
 LIMIT $2;
`
	return r.selectMany(ctx, tx, "search activation codes", q, likePattern(query), limit)
}

// ResetDevice is a single conditionless update. Zero affected rows is success.
func (r *activationCodeRepo) ResetDevice(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE activation_codes SET device_id = NULL, used = FALSE, used_at = NULL WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	return domain.Persistence("reset activation code", err)
}

func (r *activationCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM activation_codes WHERE id = $1;`, id)
	return domain.Persistence("delete activation code", err)
}

func (r *activationCodeRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return countRow(ctx, r.pool, tx, "count activation codes", `SELECT COUNT(*) FROM activation_codes;`)
}

func (r *activationCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	return countRow(ctx, r.pool, tx, "count used activation codes", `SELECT COUNT(*) FROM activation_codes WHERE used = TRUE;`)
}

func (r *activationCodeRepo) CountCreatedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	return countRow(ctx, r.pool, tx, "count recent activation codes", `SELECT COUNT(*) FROM activation_codes WHERE created_at >= $1;`, since)
}

func (r *activationCodeRepo) CountCreatedByDay(ctx context.Context, tx repository.Tx, from, to time.Time) (map[string]int, error) {
	const q = `
SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
  FROM activation_codes
 WHERE created_at >= $1 AND created_at < $2
 GROUP BY day;
`
	rows, err := queryRows(ctx, r.pool, tx, q, from, to)
	if err != nil {
		return nil, domain.Persistence("count activation codes by day", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, domain.Persistence("count activation codes by day", err)
		}
		out[day] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("count activation codes by day", err)
	}
	return out, nil
}

func (r *activationCodeRepo) selectMany(ctx context.Context, tx repository.Tx, op, q string, args ...interface{}) ([]*model.ActivationCode, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}
	defer rows.Close()

	out := make([]*model.ActivationCode, 0)
	for rows.Next() {
		ac, err := scanActivationCode(rows)
		if err != nil {
			return nil, domain.Persistence(op, err)
		}
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(op, err)
	}
	return out, nil
}

func scanActivationCode(row pgx.Row) (*model.ActivationCode, error) {
	var ac model.ActivationCode
	err := row.Scan(
		&ac.ID, &ac.Phone, &ac.OrderID, &ac.CustomerName, &ac.CustomerEmail,
		&ac.DeviceID, &ac.Used, &ac.UsedAt, &ac.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a user query into a literal substring pattern.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
