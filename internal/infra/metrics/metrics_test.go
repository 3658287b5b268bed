//go:build !integration

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_RegistersEveryCollectorOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	MustRegister(reg) // second call is a no-op

	IncActivationOp("Create", "OK")
	IncAdminLogin("authorized")
	IncCacheRequest("stats", "hit")
	ObservePush("onesignal", "Subscribed Users", "ok", 12)
	ObserveHTTP("GET", "/api/v1/codes", 200, 5*time.Millisecond)
	SetDBPoolStats(10, 7, 3)
	SetBuildInfo("dev", "none")
	SetRegistrySize(40, 25)

	if got := testutil.ToFloat64(activationOpsTotal.WithLabelValues("create", "ok")); got != 1 {
		t.Errorf("expected activation counter 1, got %v", got)
	}
	if got := testutil.ToFloat64(pushRecipientsTotal.WithLabelValues("onesignal", "subscribed users")); got != 12 {
		t.Errorf("expected 12 recipients, got %v", got)
	}
	if got := testutil.ToFloat64(dbPoolStats.WithLabelValues("in_use")); got != 3 {
		t.Errorf("expected in_use 3, got %v", got)
	}

	if got := testutil.ToFloat64(registrySize.WithLabelValues("used")); got != 25 {
		t.Errorf("expected 25 used codes, got %v", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) < 6 {
		t.Errorf("expected the enqueued collectors to be registered, got %d families", len(mfs))
	}
}
