//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
)

func strPtr(s string) *string { return &s }

func seedCode(t *testing.T, ctx context.Context, phone string, name *string, createdAt time.Time) *model.ActivationCode {
	t.Helper()
	repo := NewActivationCodeRepo(testPool)
	code, err := model.NewActivationCode(model.AdminOrderID(createdAt), phone, name, nil, createdAt)
	if err != nil {
		t.Fatalf("NewActivationCode failed: %v", err)
	}
	if err := repo.Create(ctx, nil, code); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return code
}

func TestActivationCodeRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}
	ctx := context.Background()
	repo := NewActivationCodeRepo(testPool)

	t.Run("should create, find, redeem and reset a code", func(t *testing.T) {
		cleanup(t)
		now := time.Now().UTC().Truncate(time.Microsecond)
		code := seedCode(t, ctx, "+221771234567", strPtr("Awa"), now)

		found, err := repo.FindByID(ctx, nil, code.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Phone != "+221771234567" || found.Used || found.DeviceID != nil {
			t.Fatalf("unexpected stored code: %+v", found)
		}

		// Simulate the mobile app redeeming the code.
		if _, err := testPool.Exec(ctx,
			`UPDATE activation_codes SET device_id = 'dev-1', used = TRUE, used_at = NOW() WHERE id = $1`, code.ID); err != nil {
			t.Fatalf("redeem failed: %v", err)
		}
		used, _ := repo.CountUsed(ctx, nil)
		if used != 1 {
			t.Fatalf("expected 1 used code, got %d", used)
		}

		if err := repo.ResetDevice(ctx, nil, code.ID); err != nil {
			t.Fatalf("ResetDevice failed: %v", err)
		}
		// Second reset must be a no-op.
		if err := repo.ResetDevice(ctx, nil, code.ID); err != nil {
			t.Fatalf("second ResetDevice failed: %v", err)
		}
		reset, _ := repo.FindByID(ctx, nil, code.ID)
		if reset.Used || reset.DeviceID != nil || reset.UsedAt != nil {
			t.Errorf("code should be unbound after reset: %+v", reset)
		}
	})

	t.Run("should return ErrNotFound for unknown id", func(t *testing.T) {
		cleanup(t)
		_, err := repo.FindByID(ctx, nil, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reset and delete on missing ids should succeed", func(t *testing.T) {
		cleanup(t)
		missing := "00000000-0000-0000-0000-000000000001"
		if err := repo.ResetDevice(ctx, nil, missing); err != nil {
			t.Errorf("ResetDevice on missing id: %v", err)
		}
		if err := repo.Delete(ctx, nil, missing); err != nil {
			t.Errorf("Delete on missing id: %v", err)
		}
	})

	t.Run("pages should be disjoint even with equal timestamps", func(t *testing.T) {
		cleanup(t)
		same := time.Now().UTC().Truncate(time.Second)
		for i := 0; i < 5; i++ {
			seedCode(t, ctx, "+33600000000", nil, same)
		}
		seen := map[string]bool{}
		for offset := 0; offset < 6; offset += 2 {
			page, err := repo.List(ctx, nil, offset, 2)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			for _, c := range page {
				if seen[c.ID] {
					t.Fatalf("code %s appears on two pages", c.ID)
				}
				seen[c.ID] = true
			}
		}
		if len(seen) != 5 {
			t.Errorf("expected 5 distinct codes across pages, got %d", len(seen))
		}
	})

	t.Run("search should match phone, name and email literally", func(t *testing.T) {
		cleanup(t)
		now := time.Now().UTC()
		seedCode(t, ctx, "+221771111111", strPtr("Moussa 100%"), now)
		seedCode(t, ctx, "+221772222222", strPtr("Fatou"), now.Add(time.Second))

		got, err := repo.Search(ctx, nil, "7711", 50)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(got) != 1 || got[0].Phone != "+221771111111" {
			t.Errorf("phone search returned %+v", got)
		}

		got, _ = repo.Search(ctx, nil, "fatou", 50)
		if len(got) != 1 {
			t.Errorf("case-insensitive name search returned %d rows", len(got))
		}

		got, _ = repo.Search(ctx, nil, "%", 50)
		if len(got) != 1 {
			t.Errorf("percent sign should match literally, got %d rows", len(got))
		}

		got, _ = repo.Search(ctx, nil, "_", 50)
		if len(got) != 0 {
			t.Errorf("underscore should match literally, got %d rows", len(got))
		}
	})

	t.Run("counters and daily buckets", func(t *testing.T) {
		cleanup(t)
		day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		seedCode(t, ctx, "+1", nil, day)
		seedCode(t, ctx, "+2", nil, day.Add(time.Hour))
		seedCode(t, ctx, "+3", nil, day.AddDate(0, 0, 1))

		total, err := repo.Count(ctx, nil)
		if err != nil || total != 3 {
			t.Fatalf("Count = %d, %v", total, err)
		}
		recent, _ := repo.CountCreatedSince(ctx, nil, day.AddDate(0, 0, 1).Truncate(24*time.Hour))
		if recent != 1 {
			t.Errorf("CountCreatedSince = %d, want 1", recent)
		}

		from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
		byDay, err := repo.CountCreatedByDay(ctx, nil, from, from.AddDate(0, 0, 3))
		if err != nil {
			t.Fatalf("CountCreatedByDay failed: %v", err)
		}
		if byDay["2025-03-10"] != 2 || byDay["2025-03-11"] != 1 || byDay["2025-03-09"] != 0 {
			t.Errorf("unexpected buckets %v", byDay)
		}
	})

	t.Run("delete should remove the row", func(t *testing.T) {
		cleanup(t)
		code := seedCode(t, ctx, "+221770000000", nil, time.Now())
		if err := repo.Delete(ctx, nil, code.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.FindByID(ctx, nil, code.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("writes inside a rolled back transaction should not persist", func(t *testing.T) {
		cleanup(t)
		tm := NewTxManager(testPool)
		code, _ := model.NewActivationCode("ADMIN-1", "+1", nil, nil, time.Now())
		boom := errors.New("boom")
		err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := repo.Create(ctx, tx, code); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if n, _ := repo.Count(ctx, nil); n != 0 {
			t.Errorf("rolled back insert persisted, count=%d", n)
		}
	})
}
