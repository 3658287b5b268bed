//go:build !integration

package postgres

import (
	"context"
	"sync"
	"time"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	red "activation-admin/internal/infra/redis"

	"github.com/go-redis/redis/v8"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCodeRepo mocks the database repository that the decorator wraps.
// Unset Func fields panic through the embedded nil interface, which flags
// unexpected pass-through calls.
type mockInnerCodeRepo struct {
	repository.ActivationCodeRepository

	CreateFunc      func(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error
	ResetDeviceFunc func(ctx context.Context, tx repository.Tx, id string) error
	DeleteFunc      func(ctx context.Context, tx repository.Tx, id string) error
	CountFunc       func(ctx context.Context, tx repository.Tx) (int, error)
	CountUsedFunc   func(ctx context.Context, tx repository.Tx) (int, error)
}

func (m *mockInnerCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	return m.CreateFunc(ctx, tx, code)
}
func (m *mockInnerCodeRepo) ResetDevice(ctx context.Context, tx repository.Tx, id string) error {
	return m.ResetDeviceFunc(ctx, tx, id)
}
func (m *mockInnerCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}
func (m *mockInnerCodeRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return m.CountFunc(ctx, tx)
}
func (m *mockInnerCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	return m.CountUsedFunc(ctx, tx)
}

// mockRedisClient is an in-memory red.RedisClient.
type mockRedisClient struct {
	mu   sync.Mutex
	vals map[string]string
	dels []string

	GetFunc func(ctx context.Context, key string) (string, error)
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{vals: map[string]string{}}
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := value.(string); ok {
		m.vals[key] = s
	}
	return nil
}

func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
		m.dels = append(m.dels, k)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }
