package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/server/api"
)

// passthroughDoc copies a single input field straight to the output.
const passthroughDoc = `{
	"name": "passthrough",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}},
		{"id": "out", "kind": "OUTPUT", "content": {"fields": ["x"]}}
	],
	"edges": [{"source": "in", "target": "out"}]
}`

// eligibilityDoc is the PAN eligibility document in the editor's on-disk
// format, over the canonical KYC fact names.
const eligibilityDoc = `{
	"name": "pan_eligibility",
	"version": "1",
	"nodes": [
		{
			"id": "input", "kind": "INPUT",
			"content": {"fields": [
				{"field": "pan_verification_status"},
				{"field": "cibil_score"},
				{"field": "customer_age"},
				{"field": "dedupe_match_found", "default": false}
			]}
		},
		{
			"id": "eligibility", "kind": "DECISION_TABLE",
			"content": {
				"hitPolicy": "FIRST",
				"mandatory": true,
				"inputs": [
					{"id": "c_pan", "field": "pan_verification_status"},
					{"id": "c_score", "field": "cibil_score"},
					{"id": "c_age", "field": "customer_age"},
					{"id": "c_dup", "field": "dedupe_match_found"}
				],
				"outputs": [
					{"id": "c_status", "field": "kyc_eligibility_status"},
					{"id": "c_reason", "field": "kyc_rejection_reason"}
				],
				"rows": [
					{"inputs": {"c_pan": "not(\"VERIFIED\")"}, "outputs": {"c_status": "\"REJECTED\"", "c_reason": "\"PAN_INVALID\""}},
					{"inputs": {"c_dup": "true"}, "outputs": {"c_status": "\"REJECTED\"", "c_reason": "\"DUPLICATE_CUSTOMER\""}},
					{"inputs": {"c_age": "< 21"}, "outputs": {"c_status": "\"REJECTED\"", "c_reason": "\"AGE_BELOW_THRESHOLD\""}},
					{"inputs": {"c_score": "< 650"}, "outputs": {"c_status": "\"REJECTED\"", "c_reason": "\"CIBIL_SCORE_LOW\""}},
					{"inputs": {}, "outputs": {"c_status": "\"APPROVED\"", "c_reason": "null"}}
				]
			}
		},
		{
			"id": "output", "kind": "OUTPUT",
			"content": {"fields": ["kyc_eligibility_status", "kyc_rejection_reason"]}
		}
	],
	"edges": [
		{"source": "input", "target": "eligibility"},
		{"source": "eligibility", "target": "output"}
	]
}`

// strictDoc is a mandatory FIRST table with no catch-all row, so facts that
// match nothing surface a no-matching-rule error.
const strictDoc = `{
	"name": "strict",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "tier"}]}},
		{
			"id": "table", "kind": "DECISION_TABLE",
			"content": {
				"hitPolicy": "FIRST",
				"mandatory": true,
				"inputs": [{"id": "c_tier", "field": "tier"}],
				"outputs": [{"id": "c_limit", "field": "limit"}],
				"rows": [
					{"inputs": {"c_tier": "\"GOLD\""}, "outputs": {"c_limit": "100"}}
				]
			}
		},
		{"id": "out", "kind": "OUTPUT", "content": {"fields": ["limit"]}}
	],
	"edges": [
		{"source": "in", "target": "table"},
		{"source": "table", "target": "out"}
	]
}`

// brokenDoc has an edge to a node that does not exist.
const brokenDoc = `{
	"name": "broken",
	"version": "1",
	"nodes": [
		{"id": "in", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}}
	],
	"edges": [{"source": "in", "target": "missing"}]
}`

// testStack wires a memory source, cache, and engine for handler tests.
type testStack struct {
	source *source.MemorySource
	cache  *cache.RuleCache
	engine *engine.Engine
}

func newTestStack(t *testing.T, rules map[string]string) *testStack {
	t.Helper()

	docs := make(map[string][]byte, len(rules))
	for path, doc := range rules {
		docs[path] = []byte(doc)
	}
	src := source.NewMemorySource(docs)
	c := cache.New(src, slog.Default())
	eng, err := engine.New(nil, c, slog.Default())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return &testStack{source: src, cache: c, engine: eng}
}

// doJSON runs a request through the handler and decodes the JSON response
// into out (when out is non-nil).
func doJSON(t *testing.T, handler http.Handler, req *http.Request, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// decodeError decodes the error envelope and fails the test on anything else.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *api.ErrorResponse {
	t.Helper()

	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope %q: %v", rec.Body.String(), err)
	}
	if resp.Error.Message == "" {
		t.Fatalf("error envelope has no message: %s", rec.Body.String())
	}
	return &resp
}
