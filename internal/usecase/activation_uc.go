package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MaxPageSize   = 100
	SearchLimit   = 50
	MaxSeriesDays = 366
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase is the operator-facing registry of activation codes.
type ActivationUseCase interface {
	Create(ctx context.Context, in CreateCodeInput) (*model.ActivationCode, error)
	Issue(ctx context.Context, orderID string, in CreateCodeInput) (*model.ActivationCode, error)
	Get(ctx context.Context, id string) (*model.ActivationCode, error)
	List(ctx context.Context, page, pageSize int) (*CodePage, error)
	Search(ctx context.Context, query string) ([]*model.ActivationCode, error)
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (model.Stats, error)
	DailySeries(ctx context.Context, days int) ([]model.DailyCount, error)
}

type CreateCodeInput struct {
	Phone         string
	CustomerName  *string
	CustomerEmail *string
}

// CodePage is one page of the registry plus the total row count.
type CodePage struct {
	Codes    []*model.ActivationCode `json:"codes"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type activationUC struct {
	codes repository.ActivationCodeRepository
	log   *zerolog.Logger
	now   func() time.Time
}

func NewActivationUseCase(codes repository.ActivationCodeRepository, logger *zerolog.Logger) *activationUC {
	return &activationUC{codes: codes, log: logger, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin "today".
func (uc *activationUC) WithClock(now func() time.Time) *activationUC {
	uc.now = now
	return uc
}

// Create registers a code for an operator-entered customer. The order id is
// synthesized and a missing name is recorded as ManualEntryName.
func (uc *activationUC) Create(ctx context.Context, in CreateCodeInput) (*model.ActivationCode, error) {
	now := uc.now()
	if in.CustomerName == nil || strings.TrimSpace(*in.CustomerName) == "" {
		name := model.ManualEntryName
		in.CustomerName = &name
	}
	code, err := uc.insert(ctx, "create", model.AdminOrderID(now), in, now)
	if err != nil {
		return nil, err
	}
	logging.With(ctx, uc.log).Info().
		Str("code_id", code.ID).
		Str("order_id", code.OrderID).
		Msg("activation code created")
	return code, nil
}

// Issue registers a code for a fulfilled purchase.
func (uc *activationUC) Issue(ctx context.Context, orderID string, in CreateCodeInput) (*model.ActivationCode, error) {
	code, err := uc.insert(ctx, "issue", strings.TrimSpace(orderID), in, uc.now())
	if err != nil {
		return nil, err
	}
	logging.With(ctx, uc.log).Info().
		Str("code_id", code.ID).
		Str("order_id", code.OrderID).
		Msg("activation code issued")
	return code, nil
}

func (uc *activationUC) insert(ctx context.Context, op, orderID string, in CreateCodeInput, now time.Time) (*model.ActivationCode, error) {
	code, err := model.NewActivationCode(orderID, in.Phone, in.CustomerName, in.CustomerEmail, now)
	if err != nil {
		metrics.IncActivationOp(op, statusOf(err))
		return nil, err
	}
	if err := uc.codes.Create(ctx, repository.NoTX, code); err != nil {
		metrics.IncActivationOp(op, statusOf(err))
		logging.With(ctx, uc.log).Error().Err(err).Str("op", op).Msg("failed to persist activation code")
		return nil, err
	}
	metrics.IncActivationOp(op, "ok")
	return code, nil
}

func (uc *activationUC) Get(ctx context.Context, id string) (*model.ActivationCode, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id is required")
	}
	if !storedID(id) {
		return nil, domain.ErrNotFound
	}
	return uc.codes.FindByID(ctx, repository.NoTX, id)
}

// List returns page (1-indexed) of the registry, newest first. A page past the
// end is empty, not an error.
func (uc *activationUC) List(ctx context.Context, page, pageSize int) (*CodePage, error) {
	if page < 1 {
		return nil, domain.Invalid("page must be >= 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, domain.Invalid("page_size must be between 1 and %d", MaxPageSize)
	}
	codes, err := uc.codes.List(ctx, repository.NoTX, (page-1)*pageSize, pageSize)
	if err != nil {
		metrics.IncActivationOp("list", statusOf(err))
		return nil, err
	}
	total, err := uc.codes.Count(ctx, repository.NoTX)
	if err != nil {
		metrics.IncActivationOp("list", statusOf(err))
		return nil, err
	}
	metrics.IncActivationOp("list", "ok")
	return &CodePage{Codes: codes, Total: total, Page: page, PageSize: pageSize}, nil
}

// Search is a bounded lookup across phone, name and email. A blank query
// returns the most recent codes under the same cap.
func (uc *activationUC) Search(ctx context.Context, query string) ([]*model.ActivationCode, error) {
	query = strings.TrimSpace(query)
	var (
		codes []*model.ActivationCode
		err   error
	)
	if query == "" {
		codes, err = uc.codes.List(ctx, repository.NoTX, 0, SearchLimit)
	} else {
		codes, err = uc.codes.Search(ctx, repository.NoTX, query, SearchLimit)
	}
	metrics.IncActivationOp("search", statusOf(err))
	if err != nil {
		return nil, err
	}
	if len(codes) > SearchLimit {
		codes = codes[:SearchLimit]
	}
	return codes, nil
}

// Reset unbinds the device unconditionally. Resetting an unused or missing code
// succeeds. A redemption racing with the reset may win; the last write stands.
func (uc *activationUC) Reset(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id is required")
	}
	if !storedID(id) {
		metrics.IncActivationOp("reset", "ok")
		return nil
	}
	err := uc.codes.ResetDevice(ctx, repository.NoTX, id)
	metrics.IncActivationOp("reset", statusOf(err))
	if err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("code_id", id).Msg("failed to reset activation code")
		return err
	}
	logging.With(ctx, uc.log).Info().Str("code_id", id).Msg("activation code reset")
	return nil
}

// Delete removes the code permanently. Deleting a missing code succeeds.
func (uc *activationUC) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id is required")
	}
	if !storedID(id) {
		metrics.IncActivationOp("delete", "ok")
		return nil
	}
	err := uc.codes.Delete(ctx, repository.NoTX, id)
	metrics.IncActivationOp("delete", statusOf(err))
	if err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("code_id", id).Msg("failed to delete activation code")
		return err
	}
	logging.With(ctx, uc.log).Info().Str("code_id", id).Msg("activation code deleted")
	return nil
}

// Statistics takes four independent counts. "Today" starts at local midnight;
// the week is the trailing 168 hours.
func (uc *activationUC) Statistics(ctx context.Context) (model.Stats, error) {
	defer logging.TraceDuration(uc.log, "ActivationUC.Statistics")()

	now := uc.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var s model.Stats
	var err error
	if s.TotalCodes, err = uc.codes.Count(ctx, repository.NoTX); err != nil {
		return uc.statsFailed(ctx, err)
	}
	if s.ActivatedCodes, err = uc.codes.CountUsed(ctx, repository.NoTX); err != nil {
		return uc.statsFailed(ctx, err)
	}
	if s.TodayActivations, err = uc.codes.CountCreatedSince(ctx, repository.NoTX, midnight); err != nil {
		return uc.statsFailed(ctx, err)
	}
	if s.WeekActivations, err = uc.codes.CountCreatedSince(ctx, repository.NoTX, weekAgo); err != nil {
		return uc.statsFailed(ctx, err)
	}
	metrics.IncActivationOp("stats", "ok")
	return s, nil
}

func (uc *activationUC) statsFailed(ctx context.Context, err error) (model.Stats, error) {
	metrics.IncActivationOp("stats", statusOf(err))
	logging.With(ctx, uc.log).Error().Err(err).Msg("failed to compute activation statistics")
	return model.Stats{}, err
}

// DailySeries returns exactly days buckets, oldest first, one per UTC calendar
// day ending today. Days without activity are zero.
func (uc *activationUC) DailySeries(ctx context.Context, days int) ([]model.DailyCount, error) {
	if days < 1 || days > MaxSeriesDays {
		return nil, domain.Invalid("days must be between 1 and %d", MaxSeriesDays)
	}
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	byDay, err := uc.codes.CountCreatedByDay(ctx, repository.NoTX, from, to)
	metrics.IncActivationOp("series", statusOf(err))
	if err != nil {
		return nil, err
	}

	out := make([]model.DailyCount, 0, days)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, model.DailyCount{Date: key, Count: byDay[key]})
	}
	return out, nil
}

// storedID reports whether id can name a row. Ids are UUIDs, so anything else
// is a missing row rather than a store error.
func storedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}
