package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/ports/adapter"
)

var _ adapter.NotificationProvider = (*Noop)(nil)

// Noop is an in-memory provider for local runs and tests. Every send reaches
// Recipients devices.
type Noop struct {
	mu         sync.Mutex
	seq        int64
	sent       map[string]adapter.PushMessage
	Recipients int
}

func NewNoop() *Noop {
	return &Noop{sent: make(map[string]adapter.PushMessage), Recipients: 1}
}

func (n *Noop) Name() string { return "noop" }

func (n *Noop) Send(ctx context.Context, msg adapter.PushMessage) (adapter.PushResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	id := fmt.Sprintf("noop-%d", n.seq)
	n.sent[id] = msg
	return adapter.PushResult{ID: id, Recipients: n.Recipients}, nil
}

func (n *Noop) Get(ctx context.Context, id string) (json.RawMessage, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg, ok := n.sent[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b, _ := json.Marshal(map[string]any{
		"id":         id,
		"headings":   map[string]string{"en": msg.Title},
		"contents":   map[string]string{"en": msg.Body},
		"successful": n.Recipients,
	})
	return b, nil
}
