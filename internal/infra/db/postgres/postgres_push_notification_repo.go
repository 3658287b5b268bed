package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
)

var _ repository.PushNotificationRepository = (*pushNotificationRepo)(nil)

type pushNotificationRepo struct {
	pool *pgxpool.Pool
}

func NewPushNotificationRepo(pool *pgxpool.Pool) repository.PushNotificationRepository {
	return &pushNotificationRepo{pool: pool}
}

func (r *pushNotificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.PushNotification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	const q = `
INSERT INTO push_notifications (id, provider_id, title, message, segment, target_url, recipients, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := execSQL(ctx, r.pool, tx, q, n.ID, n.ProviderID, n.Title, n.Message, n.Segment, n.TargetURL, n.Recipients, n.CreatedAt)
	return domain.Persistence("insert push notification", err)
}

func (r *pushNotificationRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.PushNotification, error) {
	const q = `
SELECT id, provider_id, title, message, segment, target_url, recipients, created_at
  FROM push_notifications
 ORDER BY created_at DESC
 LIMIT $1`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, domain.Persistence("list push notifications", err)
	}
	defer rows.Close()

	out := make([]*model.PushNotification, 0)
	for rows.Next() {
		var n model.PushNotification
		if err := rows.Scan(&n.ID, &n.ProviderID, &n.Title, &n.Message, &n.Segment, &n.TargetURL, &n.Recipients, &n.CreatedAt); err != nil {
			return nil, domain.Persistence("list push notifications", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list push notifications", err)
	}
	return out, nil
}
