package postgres

import (
	"context"
	"strconv"
	"time"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/metrics"
	red "activation-admin/internal/infra/redis"

	"github.com/rs/zerolog"
)

var _ repository.ActivationCodeRepository = (*activationCodeRepoCacheDecorator)(nil)

const (
	cacheKeyCodeCount = "activation_codes:count"
	cacheKeyCodeUsed  = "activation_codes:count_used"
)

// activationCodeRepoCacheDecorator caches the two unparameterized dashboard counters
// for a short TTL. Every write through the decorator invalidates them.
type activationCodeRepoCacheDecorator struct {
	repository.ActivationCodeRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewActivationCodeRepoCacheDecorator(inner repository.ActivationCodeRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.ActivationCodeRepository {
	return &activationCodeRepoCacheDecorator{
		ActivationCodeRepository: inner,
		cache:                    cache,
		ttl:                      ttl,
		log:                      logger,
	}
}

func (d *activationCodeRepoCacheDecorator) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return d.cachedCount(ctx, cacheKeyCodeCount, func() (int, error) {
		return d.ActivationCodeRepository.Count(ctx, tx)
	})
}

func (d *activationCodeRepoCacheDecorator) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	return d.cachedCount(ctx, cacheKeyCodeUsed, func() (int, error) {
		return d.ActivationCodeRepository.CountUsed(ctx, tx)
	})
}

// For write operations, we must invalidate the cache.
func (d *activationCodeRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	err := d.ActivationCodeRepository.Create(ctx, tx, code)
	d.invalidate(ctx)
	return err
}

func (d *activationCodeRepoCacheDecorator) ResetDevice(ctx context.Context, tx repository.Tx, id string) error {
	err := d.ActivationCodeRepository.ResetDevice(ctx, tx, id)
	d.invalidate(ctx)
	return err
}

func (d *activationCodeRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	err := d.ActivationCodeRepository.Delete(ctx, tx, id)
	d.invalidate(ctx)
	return err
}

func (d *activationCodeRepoCacheDecorator) cachedCount(ctx context.Context, key string, load func() (int, error)) (int, error) {
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		if n, convErr := strconv.Atoi(val); convErr == nil {
			metrics.IncCacheRequest("activation_stats", "hit")
			return n, nil
		}
	} else if !red.IsMiss(err) {
		d.log.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
	}

	metrics.IncCacheRequest("activation_stats", "miss")
	n, err := load()
	if err != nil {
		return 0, err
	}
	if err := d.cache.Set(ctx, key, strconv.Itoa(n), d.ttl); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
	}
	return n, nil
}

func (d *activationCodeRepoCacheDecorator) invalidate(ctx context.Context) {
	if err := d.cache.Del(ctx, cacheKeyCodeCount, cacheKeyCodeUsed); err != nil {
		d.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
