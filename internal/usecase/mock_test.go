//go:build !integration

package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func strPtr(s string) *string { return &s }

// --- Activation codes ---

// memCodeRepo behaves like the postgres repository: newest first with id as
// tie-break, case-insensitive substring search, zero-row writes succeed.
// A non-nil Err makes every call fail with it.
type memCodeRepo struct {
	mu    sync.Mutex
	rows  map[string]*model.ActivationCode
	Err   error
	calls map[string]int
}

var _ repository.ActivationCodeRepository = (*memCodeRepo)(nil)

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{rows: map[string]*model.ActivationCode{}, calls: map[string]int{}}
}

func (m *memCodeRepo) enter(op string) error {
	m.calls[op]++
	if m.Err != nil {
		return domain.Persistence(op, m.Err)
	}
	return nil
}

func (m *memCodeRepo) sorted() []*model.ActivationCode {
	out := make([]*model.ActivationCode, 0, len(m.rows))
	for _, r := range m.rows {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("create"); err != nil {
		return err
	}
	if _, dup := m.rows[code.ID]; dup {
		return domain.Persistence("create", fmt.Errorf("duplicate key %s", code.ID))
	}
	c := *code
	m.rows[code.ID] = &c
	return nil
}

func (m *memCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("find"); err != nil {
		return nil, err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (m *memCodeRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("list"); err != nil {
		return nil, err
	}
	all := m.sorted()
	if offset >= len(all) {
		return []*model.ActivationCode{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memCodeRepo) Search(ctx context.Context, tx repository.Tx, query string, limit int) ([]*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("search"); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	match := func(s *string) bool { return s != nil && strings.Contains(strings.ToLower(*s), q) }
	out := []*model.ActivationCode{}
	for _, c := range m.sorted() {
		if strings.Contains(strings.ToLower(c.Phone), q) || match(c.CustomerName) || match(c.CustomerEmail) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memCodeRepo) ResetDevice(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("reset"); err != nil {
		return err
	}
	if r, ok := m.rows[id]; ok {
		r.Reset()
	}
	return nil
}

func (m *memCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("delete"); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *memCodeRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("count"); err != nil {
		return 0, err
	}
	return len(m.rows), nil
}

func (m *memCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("count_used"); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range m.rows {
		if r.Used {
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) CountCreatedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("count_since"); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range m.rows {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) CountCreatedByDay(ctx context.Context, tx repository.Tx, from, to time.Time) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("count_by_day"); err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, r := range m.rows {
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			out[r.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	return out, nil
}

// put stores a code directly, bypassing the use case.
func (m *memCodeRepo) put(c *model.ActivationCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.rows[c.ID] = &cp
}

// --- E-books ---

type mockEBookRepo struct {
	mu   sync.Mutex
	rows map[string]*model.EBook

	UpdateFunc func(ctx context.Context, tx repository.Tx, b *model.EBook) error
}

var _ repository.EBookRepository = (*mockEBookRepo)(nil)

func newMockEBookRepo() *mockEBookRepo {
	return &mockEBookRepo{rows: map[string]*model.EBook{}}
}

func (m *mockEBookRepo) Create(ctx context.Context, tx repository.Tx, b *model.EBook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *b
	m.rows[b.ID] = &c
	return nil
}

func (m *mockEBookRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.EBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (m *mockEBookRepo) List(ctx context.Context, tx repository.Tx, category string) ([]*model.EBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.EBook{}
	for _, b := range m.rows {
		if category == "" || b.Category == category {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockEBookRepo) Update(ctx context.Context, tx repository.Tx, b *model.EBook) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[b.ID]; ok {
		c := *b
		m.rows[b.ID] = &c
	}
	return nil
}

func (m *mockEBookRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type mockStorage struct {
	PutFunc func(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	keys    []string
}

var _ adapter.ObjectStorage = (*mockStorage)(nil)

func (m *mockStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	m.keys = append(m.keys, key)
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, body, contentType)
	}
	_, _ = io.Copy(io.Discard, body)
	return m.PublicURL(key), nil
}

func (m *mockStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

// --- Notifications ---

type mockProvider struct {
	SendFunc func(ctx context.Context, msg adapter.PushMessage) (adapter.PushResult, error)
	GetFunc  func(ctx context.Context, id string) (json.RawMessage, error)
	sent     []adapter.PushMessage
}

var _ adapter.NotificationProvider = (*mockProvider)(nil)

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Send(ctx context.Context, msg adapter.PushMessage) (adapter.PushResult, error) {
	m.sent = append(m.sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return adapter.PushResult{ID: fmt.Sprintf("n-%d", len(m.sent)), Recipients: 3}, nil
}

func (m *mockProvider) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return json.RawMessage(`{"id":"` + id + `"}`), nil
}

type mockHistoryRepo struct {
	SaveFunc func(ctx context.Context, tx repository.Tx, n *model.PushNotification) error
	saved    []*model.PushNotification
}

var _ repository.PushNotificationRepository = (*mockHistoryRepo)(nil)

func (m *mockHistoryRepo) Save(ctx context.Context, tx repository.Tx, n *model.PushNotification) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, n)
	}
	if n.ID == "" {
		n.ID = fmt.Sprintf("h-%d", len(m.saved)+1)
	}
	m.saved = append(m.saved, n)
	return nil
}

func (m *mockHistoryRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.PushNotification, error) {
	out := make([]*model.PushNotification, 0, limit)
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.saved[i])
	}
	return out, nil
}
