package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"decisionhq/meridian/pkg/audit"
	"decisionhq/meridian/pkg/audit/changelog"
	"decisionhq/meridian/pkg/dgl"
	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/server/api"
	"decisionhq/meridian/pkg/server/middleware"
)

// maxRuleBytes caps the accepted rule document size.
const maxRuleBytes = 1 << 20 // 1 MiB

// AuthorHeader names the editor identity recorded in the rule changelog.
const AuthorHeader = "X-Author"

// RulesHandler serves the rule management endpoints used by the editor.
type RulesHandler struct {
	source    source.WritableSource
	cache     *cache.RuleCache
	changelog *changelog.Store
	engine    *engine.Engine
	logger    *slog.Logger
}

// NewRulesHandler creates the rule management handler. changelog may be nil
// when change history is disabled.
func NewRulesHandler(src source.WritableSource, c *cache.RuleCache, cl *changelog.Store, eng *engine.Engine, logger *slog.Logger) *RulesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RulesHandler{source: src, cache: c, changelog: cl, engine: eng, logger: logger}
}

// List handles GET /api/v1/rules.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	paths, err := h.source.List(r.Context())
	if err != nil {
		writeError(w, api.NewServerError(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": paths})
}

// Get handles GET /api/v1/rules/{path...}. The stored document is returned
// verbatim so the editor round-trips losslessly.
func (h *RulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	data, err := h.source.Read(r.Context(), path)
	if err != nil {
		writeError(w, classifySourceError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Rule-Fingerprint", cache.Fingerprint(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Save handles PUT /api/v1/rules/{path...}. The document is validated before
// it is written; a broken graph never reaches the rules directory. A
// successful save invalidates the cache entry and records the change.
func (h *RulesHandler) Save(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	data, err := io.ReadAll(io.LimitReader(r.Body, maxRuleBytes+1))
	if err != nil {
		writeError(w, api.NewInvalidRequestError("failed to read request body", api.CodeInvalidValue))
		return
	}
	if len(data) > maxRuleBytes {
		writeError(w, api.NewInvalidRequestError("rule document too large", api.CodeInvalidValue))
		return
	}

	if _, _, err := dgl.ParseAndValidate(data, path); err != nil {
		writeError(w, api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeRuleParseFailed))
		return
	}

	action := audit.ActionCreate
	oldFingerprint := ""
	if old, err := h.source.Read(r.Context(), path); err == nil {
		action = audit.ActionUpdate
		oldFingerprint = cache.Fingerprint(old)
	} else if !errors.Is(err, source.ErrNotFound) {
		writeError(w, classifySourceError(err))
		return
	}

	if err := h.source.Write(r.Context(), path, data); err != nil {
		writeError(w, classifySourceError(err))
		return
	}

	newFingerprint := cache.Fingerprint(data)
	h.cache.Invalidate(path)
	h.recordChange(r, path, action, oldFingerprint, newFingerprint)

	h.logger.Info("rule saved",
		"rule_path", path,
		"action", action,
		"fingerprint", newFingerprint,
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":        path,
		"action":      action,
		"fingerprint": newFingerprint,
	})
}

// Delete handles DELETE /api/v1/rules/{path...}.
func (h *RulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")

	oldFingerprint := ""
	if old, err := h.source.Read(r.Context(), path); err == nil {
		oldFingerprint = cache.Fingerprint(old)
	} else {
		writeError(w, classifySourceError(err))
		return
	}

	if err := h.source.Delete(r.Context(), path); err != nil {
		writeError(w, classifySourceError(err))
		return
	}

	h.cache.Invalidate(path)
	h.recordChange(r, path, audit.ActionDelete, oldFingerprint, "")

	h.logger.Info("rule deleted", "rule_path", path)
	w.WriteHeader(http.StatusNoContent)
}

// TestRequest is the dry-run evaluation payload: a candidate rule document
// plus sample facts.
type TestRequest struct {
	Graph json.RawMessage        `json:"graph"`
	Facts map[string]interface{} `json:"facts"`
}

// Test handles POST /api/v1/rules/test. The candidate graph is evaluated
// against the sample facts without saving it and without audit recording, so
// editors can try changes safely.
func (h *RulesHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, api.NewInvalidRequestError("request body is not valid JSON", api.CodeInvalidJSON))
		return
	}
	if len(req.Graph) == 0 {
		writeError(w, api.NewInvalidRequestError("graph is required", api.CodeMissingField))
		return
	}
	if req.Facts == nil {
		writeError(w, api.NewInvalidRequestError("facts is required", api.CodeMissingField))
		return
	}

	graph, topo, err := dgl.ParseAndValidate(req.Graph, "test")
	if err != nil {
		writeError(w, api.NewErrorResponse(err.Error(), api.ErrorTypeRuleError, api.CodeRuleParseFailed))
		return
	}

	rg := &engine.ResolvedGraph{
		Graph:       graph,
		TopoOrder:   topo,
		Fingerprint: cache.Fingerprint(req.Graph),
	}

	decision, err := h.engine.EvaluateGraph(r.Context(), rg, req.Facts)
	if err != nil {
		writeError(w, classifyEvaluationError(err))
		return
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Result:        decision.Result,
		Trace:         decision.Trace,
		RulePath:      "test",
		Fingerprint:   rg.Fingerprint,
		PerformanceMS: float64(decision.Duration.Microseconds()) / 1000.0,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// InvalidateRequest names the cache entry to drop. An empty path drops
// everything.
type InvalidateRequest struct {
	Path string `json:"path,omitempty"`
}

// Invalidate handles POST /api/v1/rules/invalidate. Invalidation is
// idempotent: unknown paths succeed.
func (h *RulesHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, api.NewInvalidRequestError("request body is not valid JSON", api.CodeInvalidJSON))
		return
	}

	if req.Path == "" {
		h.cache.InvalidateAll()
	} else {
		h.cache.Invalidate(req.Path)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"invalidated": true})
}

// History handles GET /api/v1/rules/changes/{path...}.
func (h *RulesHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.changelog == nil {
		writeError(w, api.NewErrorResponse("rule change history is disabled", api.ErrorTypeNotFound, ""))
		return
	}

	path := r.PathValue("path")
	changes, err := h.changelog.History(r.Context(), path, 100)
	if err != nil {
		writeError(w, api.NewServerError(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"changes": changes})
}

func (h *RulesHandler) recordChange(r *http.Request, path, action, oldFP, newFP string) {
	if h.changelog == nil {
		return
	}

	change := &audit.RuleChangeRecord{
		RulePath:       path,
		Action:         action,
		Author:         r.Header.Get(AuthorHeader),
		OldFingerprint: oldFP,
		NewFingerprint: newFP,
		ChangedAt:      time.Now().UTC(),
	}
	if err := h.changelog.Append(r.Context(), change); err != nil {
		h.logger.Error("rule change record failed", "rule_path", path, "error", err)
	}
}

func classifySourceError(err error) *api.ErrorResponse {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return api.NewErrorResponse("rule not found", api.ErrorTypeNotFound, api.CodeRuleNotFound)
	case errors.Is(err, source.ErrInvalidPath):
		return api.NewInvalidRequestError("invalid rule path", api.CodeInvalidValue)
	default:
		return api.NewServerError(err.Error())
	}
}
