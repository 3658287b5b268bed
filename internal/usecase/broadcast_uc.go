package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"
	"activation-admin/internal/provision"

	"github.com/rs/zerolog"
)

const DefaultHistoryLimit = 20

var _ BroadcastUseCase = (*broadcastUC)(nil)

type BroadcastUseCase interface {
	Send(ctx context.Context, in SendInput) (*model.PushNotification, error)
	Get(ctx context.Context, id string) (json.RawMessage, error)
	History(ctx context.Context, limit int) ([]*model.PushNotification, error)
}

type SendInput struct {
	Title     string
	Message   string
	Segment   string
	TargetURL string
}

type broadcastUC struct {
	provider provision.Setup[adapter.NotificationProvider]
	history  repository.PushNotificationRepository
	log      *zerolog.Logger
	now      func() time.Time
}

func NewBroadcastUseCase(
	provider provision.Setup[adapter.NotificationProvider],
	history repository.PushNotificationRepository,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		provider: provider,
		history:  history,
		log:      logger,
		now:      time.Now,
	}
}

// Send pushes one notification to a segment. The provider's acceptance is the
// result; failing to record it locally is only logged.
func (uc *broadcastUC) Send(ctx context.Context, in SendInput) (*model.PushNotification, error) {
	title := strings.TrimSpace(in.Title)
	message := strings.TrimSpace(in.Message)
	if title == "" || message == "" {
		return nil, domain.Invalid("title and message are required")
	}
	segment := strings.TrimSpace(in.Segment)
	if segment == "" {
		segment = model.DefaultSegment
	}
	target := strings.TrimSpace(in.TargetURL)

	p, err := uc.provider.Get()
	if err != nil {
		return nil, err
	}

	res, err := p.Send(ctx, adapter.PushMessage{Title: title, Body: message, Segment: segment, TargetURL: target})
	if err != nil {
		metrics.ObservePush(p.Name(), segment, "error", 0)
		logging.With(ctx, uc.log).Error().Err(err).Str("segment", segment).Msg("push send failed")
		return nil, err
	}
	metrics.ObservePush(p.Name(), segment, "ok", res.Recipients)

	n := &model.PushNotification{
		ProviderID: res.ID,
		Title:      title,
		Message:    message,
		Segment:    segment,
		Recipients: res.Recipients,
		CreatedAt:  uc.now(),
	}
	if target != "" {
		n.TargetURL = &target
	}
	if err := uc.history.Save(ctx, repository.NoTX, n); err != nil {
		logging.With(ctx, uc.log).Warn().Err(err).Str("provider_id", res.ID).Msg("failed to record push notification")
	}
	logging.With(ctx, uc.log).Info().
		Str("provider_id", res.ID).
		Str("segment", segment).
		Int("recipients", res.Recipients).
		Msg("push notification sent")
	return n, nil
}

func (uc *broadcastUC) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("notification id is required")
	}
	p, err := uc.provider.Get()
	if err != nil {
		return nil, err
	}
	return p.Get(ctx, id)
}

func (uc *broadcastUC) History(ctx context.Context, limit int) ([]*model.PushNotification, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return uc.history.ListRecent(ctx, repository.NoTX, limit)
}
