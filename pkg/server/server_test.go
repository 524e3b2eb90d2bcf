package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"decisionhq/meridian/pkg/config"
	"decisionhq/meridian/pkg/facts/kyc"
	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/telemetry/health"
	"decisionhq/meridian/pkg/telemetry/metrics"
)

const passthroughDoc = `{
	"name": "passthrough",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}},
		{"id": "out", "kind": "OUTPUT", "content": {"fields": ["x"]}}
	],
	"edges": [{"source": "in", "target": "out"}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	src := source.NewMemorySource(map[string][]byte{
		"demo/passthrough_v1": []byte(passthroughDoc),
	})
	ruleCache := cache.New(src, nil)
	eng, err := engine.New(nil, ruleCache, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	cfg := config.DefaultConfig()
	collector := metrics.NewCollector(metrics.Config{
		Enabled:   true,
		Namespace: "meridian",
	}, nil)

	return NewServer(cfg, Components{
		Engine:  eng,
		Cache:   ruleCache,
		Source:  src,
		Adapter: kyc.NewAdapter(nil),
		Metrics: collector,
		Health:  health.New(0),
		Version: "test",
	}, nil)
}

func TestHandlerRoutes(t *testing.T) {
	handler := newTestServer(t).Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "evaluate", method: http.MethodPost, path: "/api/v1/decisions/evaluate",
			body: `{"rule_path":"demo/passthrough_v1","facts":{"x":1}}`, wantStatus: http.StatusOK},
		{name: "list rules", method: http.MethodGet, path: "/api/v1/rules", wantStatus: http.StatusOK},
		{name: "get rule", method: http.MethodGet, path: "/api/v1/rules/demo/passthrough_v1", wantStatus: http.StatusOK},
		{name: "unknown rule", method: http.MethodGet, path: "/api/v1/rules/missing", wantStatus: http.StatusNotFound},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/ready", wantStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "history disabled", method: http.MethodGet, path: "/api/v1/rules/changes/demo/passthrough_v1",
			wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/api/v1/decisions/evaluate",
			wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *bytes.Buffer
			if tt.body != "" {
				body = bytes.NewBufferString(tt.body)
			} else {
				body = &bytes.Buffer{}
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerCorrelationAndVersion(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("response has no X-Correlation-ID header")
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode version payload: %v", err)
	}
	if payload["version"] != "test" {
		t.Errorf("version = %q, want %q", payload["version"], "test")
	}
}

func TestServerLifecycleFlags(t *testing.T) {
	srv := newTestServer(t)

	if srv.IsRunning() {
		t.Error("new server reports running")
	}
	// Stop before Start must not panic and must stay idempotent.
	srv.Stop()
	srv.Stop()
}
