//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/provision"
	"activation-admin/internal/usecase"
)

func newBroadcastUC(p adapter.NotificationProvider, history *mockHistoryRepo) usecase.BroadcastUseCase {
	setup := provision.Unconfigured[adapter.NotificationProvider]("onesignal credentials missing")
	if p != nil {
		setup = provision.Configured[adapter.NotificationProvider](p)
	}
	return usecase.NewBroadcastUseCase(setup, history, newTestLogger())
}

func TestBroadcastUseCase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should default the segment and record the send", func(t *testing.T) {
		p := &mockProvider{}
		history := &mockHistoryRepo{}
		uc := newBroadcastUC(p, history)

		n, err := uc.Send(ctx, usecase.SendInput{Title: " Iftar ", Message: "C'est l'heure", TargetURL: "app://prayer"})
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if len(p.sent) != 1 {
			t.Fatalf("expected one provider call, got %d", len(p.sent))
		}
		msg := p.sent[0]
		if msg.Segment != model.DefaultSegment || msg.Title != "Iftar" || msg.TargetURL != "app://prayer" {
			t.Errorf("unexpected message %+v", msg)
		}
		if n.ProviderID != "n-1" || n.Recipients != 3 || n.TargetURL == nil {
			t.Errorf("unexpected result %+v", n)
		}
		if len(history.saved) != 1 {
			t.Errorf("send should be recorded, got %d rows", len(history.saved))
		}
	})

	t.Run("should require title and message", func(t *testing.T) {
		p := &mockProvider{}
		uc := newBroadcastUC(p, &mockHistoryRepo{})
		for _, in := range []usecase.SendInput{{Message: "m"}, {Title: "t"}, {Title: " ", Message: " "}} {
			if _, err := uc.Send(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%+v: expected ErrInvalidArgument, got %v", in, err)
			}
		}
		if len(p.sent) != 0 {
			t.Error("invalid input must not reach the provider")
		}
	})

	t.Run("a history failure should not fail the send", func(t *testing.T) {
		history := &mockHistoryRepo{SaveFunc: func(ctx context.Context, tx repository.Tx, n *model.PushNotification) error {
			return domain.Persistence("insert push notification", errors.New("disk full"))
		}}
		uc := newBroadcastUC(&mockProvider{}, history)
		if _, err := uc.Send(ctx, usecase.SendInput{Title: "t", Message: "m"}); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})

	t.Run("provider errors should surface and not be recorded", func(t *testing.T) {
		p := &mockProvider{SendFunc: func(ctx context.Context, msg adapter.PushMessage) (adapter.PushResult, error) {
			return adapter.PushResult{}, domain.ErrProvider
		}}
		history := &mockHistoryRepo{}
		uc := newBroadcastUC(p, history)
		if _, err := uc.Send(ctx, usecase.SendInput{Title: "t", Message: "m"}); !errors.Is(err, domain.ErrProvider) {
			t.Errorf("expected ErrProvider, got %v", err)
		}
		if len(history.saved) != 0 {
			t.Error("failed sends must not be recorded")
		}
	})

	t.Run("should report an unconfigured provider", func(t *testing.T) {
		uc := newBroadcastUC(nil, &mockHistoryRepo{})
		if _, err := uc.Send(ctx, usecase.SendInput{Title: "t", Message: "m"}); !errors.Is(err, domain.ErrUnconfigured) {
			t.Errorf("expected ErrUnconfigured, got %v", err)
		}
		if _, err := uc.Get(ctx, "n-1"); !errors.Is(err, domain.ErrUnconfigured) {
			t.Errorf("expected ErrUnconfigured, got %v", err)
		}
	})
}

func TestBroadcastUseCase_GetAndHistory(t *testing.T) {
	ctx := context.Background()
	history := &mockHistoryRepo{}
	uc := newBroadcastUC(&mockProvider{}, history)

	raw, err := uc.Get(ctx, "n-9")
	if err != nil || string(raw) != `{"id":"n-9"}` {
		t.Errorf("Get = %s, %v", raw, err)
	}
	if _, err := uc.Get(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := uc.Send(ctx, usecase.SendInput{Title: "t", Message: "m"}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	recent, err := uc.History(ctx, 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ProviderID != "n-3" {
		t.Errorf("unexpected history %+v", recent)
	}
	all, _ := uc.History(ctx, 0)
	if len(all) != 3 {
		t.Errorf("default limit should include all 3 sends, got %d", len(all))
	}
}
