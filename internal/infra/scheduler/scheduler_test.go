//go:build !integration

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScheduler_RunsJobsImmediatelyAndOnTick(t *testing.T) {
	var runs int32
	job := Func("count", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s := NewScheduler(10*time.Millisecond, nopLogger(), job)
	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op
	waitFor(t, func() bool { return atomic.LoadInt32(&runs) >= 3 })
	s.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != after {
		t.Errorf("job ran after Stop: %d -> %d", after, got)
	}
	s.Stop() // idempotent
}

func TestScheduler_FailingJobDoesNotBlockOthers(t *testing.T) {
	var ok int32
	failing := Func("broken", func(ctx context.Context) error { return errors.New("boom") })
	healthy := Func("healthy", func(ctx context.Context) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})

	s := NewScheduler(10*time.Millisecond, nopLogger(), failing, healthy)
	s.Start(context.Background())
	waitFor(t, func() bool { return atomic.LoadInt32(&ok) >= 2 })
	s.Stop()
}

func TestScheduler_JobsSeeADeadline(t *testing.T) {
	seen := make(chan bool, 1)
	job := Func("deadline", func(ctx context.Context) error {
		_, has := ctx.Deadline()
		select {
		case seen <- has:
		default:
		}
		return nil
	})

	s := NewScheduler(time.Hour, nopLogger(), job)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case has := <-seen:
		if !has {
			t.Error("job context should carry a deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run at start")
	}
}
