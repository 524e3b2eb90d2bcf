package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector() *Collector {
	return NewCollector(DefaultConfig(), prometheus.NewRegistry())
}

func TestRecordEvaluation(t *testing.T) {
	c := newTestCollector()

	c.RecordEvaluation("kyc/pan_eligibility_v1", "success", 300*time.Microsecond)
	c.RecordEvaluation("kyc/pan_eligibility_v1", "success", 500*time.Microsecond)
	c.RecordEvaluation("kyc/pan_eligibility_v1", "error", time.Millisecond)

	got := testutil.ToFloat64(c.evaluation.evaluationsTotal.WithLabelValues("kyc/pan_eligibility_v1", "success"))
	if got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.evaluation.evaluationsTotal.WithLabelValues("kyc/pan_eligibility_v1", "error"))
	if got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	c := newTestCollector()

	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordCacheLoadFailure()
	c.UpdateCacheSize(7)

	if got := testutil.ToFloat64(c.cache.hitsTotal); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.cache.missesTotal); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cache.loadFailuresTotal); got != 1 {
		t.Errorf("load failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cache.entries); got != 7 {
		t.Errorf("entries = %v, want 7", got)
	}
}

func TestAuditMetrics(t *testing.T) {
	c := newTestCollector()

	c.RecordAuditStored()
	c.RecordAuditDropped()
	c.RecordAuditDropped()

	if got := testutil.ToFloat64(c.audit.storedTotal); got != 1 {
		t.Errorf("stored = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.audit.droppedTotal); got != 2 {
		t.Errorf("dropped = %v, want 2", got)
	}
}

func TestDisabledCollectorIsNoOp(t *testing.T) {
	c := NewCollector(Config{Enabled: false}, prometheus.NewRegistry())

	c.RecordEvaluation("kyc/v1", "success", time.Millisecond)
	c.RecordCacheHit()
	c.RecordAuditStored()

	if got := testutil.ToFloat64(c.cache.hitsTotal); got != 0 {
		t.Errorf("disabled collector recorded hits: %v", got)
	}
}

func TestCardinalityLimiterFoldsExcessPaths(t *testing.T) {
	c := newTestCollector()
	c.limiter = newCardinalityLimiter(2)

	c.RecordEvaluation("rules/a", "success", time.Microsecond)
	c.RecordEvaluation("rules/b", "success", time.Microsecond)
	c.RecordEvaluation("rules/c", "success", time.Microsecond)
	c.RecordEvaluation("rules/d", "success", time.Microsecond)

	got := testutil.ToFloat64(c.evaluation.evaluationsTotal.WithLabelValues("other", "success"))
	if got != 2 {
		t.Errorf("folded count = %v, want 2", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	c := newTestCollector()
	c.RecordEvaluation("kyc/pan_eligibility_v1", "success", 250*time.Microsecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "meridian_evaluations_total") {
		t.Errorf("scrape output missing evaluation counter:\n%s", body)
	}
}

func TestCardinalityLimiterConcurrent(t *testing.T) {
	cl := newCardinalityLimiter(10)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				cl.allow(fmt.Sprintf("set-%d", i%3))
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if len(cl.current) != 3 {
		t.Errorf("tracked sets = %d, want 3", len(cl.current))
	}
}
