package repository

import (
	"context"

	"activation-admin/internal/domain/model"
)

// -----------------------------
// Notifications Log
// -----------------------------

type PushNotificationRepository interface {
	// Save records that a notification was accepted by the provider.
	Save(ctx context.Context, tx Tx, n *model.PushNotification) error
	// ListRecent returns the latest sends, newest first.
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.PushNotification, error)
}
